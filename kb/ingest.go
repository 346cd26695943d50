package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Profile is the structured personal-data record supplied by the knowledge
// ingestion source. Flatten normalizes it into (text, category, metadata)
// entries; the store only ever sees the normalized form.
type Profile struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Skills       []SkillGroup `json:"skills"`
	Projects     []Project    `json:"projects"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	FAQ          []FAQEntry   `json:"faq"`
	Interests    []string     `json:"interests"`
	BlogPosts    []BlogPost   `json:"blog_posts"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Project struct {
	Name        string   `json:"name"`
	Year        string   `json:"year"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	Highlights  []string `json:"highlights"`
	Link        string   `json:"link"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Period string `json:"period"`
	Notes  string `json:"notes"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BlogPost struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// LoadProfile reads a profile from a JSON file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// Flatten converts the profile into normalized ingestion entries, one per
// coherent chunk: the bio, the skill inventory, and one entry per project,
// position, degree, FAQ pair, and blog post.
func (p *Profile) Flatten() []Entry {
	var entries []Entry

	if info := p.PersonalInfo; info.Name != "" || info.Bio != "" {
		var b strings.Builder
		b.WriteString("Personal Information:\n")
		writeField(&b, "Name", info.Name)
		writeField(&b, "Title", info.Title)
		writeField(&b, "Email", info.Email)
		writeField(&b, "Location", info.Location)
		writeField(&b, "Bio", info.Bio)
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategoryAbout,
			Metadata: map[string]string{"title": "Personal Information"},
		})
	}

	if len(p.Skills) > 0 {
		var b strings.Builder
		b.WriteString("Skills and Expertise:\n")
		for _, g := range p.Skills {
			fmt.Fprintf(&b, "- %s: %s\n", g.Category, strings.Join(g.Items, ", "))
		}
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategorySkills,
			Metadata: map[string]string{"title": "Skills"},
		})
	}

	for _, proj := range p.Projects {
		var b strings.Builder
		fmt.Fprintf(&b, "Project: %s\n", proj.Name)
		writeField(&b, "Year", proj.Year)
		writeField(&b, "Description", proj.Description)
		writeField(&b, "Tech Stack", strings.Join(proj.TechStack, ", "))
		writeField(&b, "Highlights", strings.Join(proj.Highlights, ", "))
		writeField(&b, "Link", proj.Link)
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategoryProjects,
			Metadata: map[string]string{"title": proj.Name},
		})
	}

	for _, exp := range p.Experience {
		var b strings.Builder
		fmt.Fprintf(&b, "Work Experience: %s at %s\n", exp.Role, exp.Company)
		writeField(&b, "Period", exp.Period)
		writeField(&b, "Description", exp.Description)
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategoryExperience,
			Metadata: map[string]string{"title": exp.Company},
		})
	}

	for _, edu := range p.Education {
		var b strings.Builder
		fmt.Fprintf(&b, "Education: %s, %s\n", edu.Degree, edu.School)
		writeField(&b, "Period", edu.Period)
		writeField(&b, "Notes", edu.Notes)
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategoryEducation,
			Metadata: map[string]string{"title": edu.School},
		})
	}

	for _, faq := range p.FAQ {
		entries = append(entries, Entry{
			Text:     fmt.Sprintf("Q: %s\nA: %s", faq.Question, faq.Answer),
			Category: CategoryFAQ,
			Metadata: map[string]string{"title": faq.Question},
		})
	}

	if len(p.Interests) > 0 {
		entries = append(entries, Entry{
			Text:     "Interests and Hobbies: " + strings.Join(p.Interests, ", "),
			Category: CategoryInterests,
			Metadata: map[string]string{"title": "Interests"},
		})
	}

	for _, post := range p.BlogPosts {
		var b strings.Builder
		fmt.Fprintf(&b, "Blog Post: %s\n", post.Title)
		writeField(&b, "Published", post.Date)
		writeField(&b, "Summary", post.Summary)
		entries = append(entries, Entry{
			Text:     b.String(),
			Category: CategoryBlog,
			Metadata: map[string]string{"title": post.Title},
		})
	}

	return entries
}

func writeField(b *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", name, value)
	}
}
