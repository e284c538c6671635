package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"techblog/internal/blog"
	"techblog/internal/models"
)

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "demo1234"

// Demo accounts created by Seed.
const (
	DemoAdminEmail  = "admin@example.com"
	DemoAuthorEmail = "author@example.com"
	DemoReaderEmail = "reader@example.com"
)

type seedPost struct {
	title      string
	excerpt    string
	content    string
	author     string // email
	categories []string
	tags       []string
	featured   bool
	published  bool
	views      int64
	date       string
}

var seedCategories = []blog.TermInput{
	{Name: "Technology", Description: strPtr("The latest trends in software and infrastructure")},
	{Name: "Logistics", Description: strPtr("Supply chains, warehousing and transport")},
	{Name: "AI", Description: strPtr("Artificial intelligence and its applications")},
	{Name: "Blockchain", Description: strPtr("Distributed ledgers in practice")},
	{Name: "Sustainability", Description: strPtr("Greener operations through technology")},
}

var seedTags = []string{
	"Innovation", "Automation", "Supply Chain", "Data Analysis",
	"Machine Learning", "Cloud", "IoT", "Green Logistics",
}

var seedPosts = []seedPost{
	{
		title:      "The Role of Technology in Modern Logistics",
		excerpt:    "How technology is reshaping logistics and how companies adapt to improve operational efficiency.",
		content:    "<h2>Introduction</h2><p>Integrating advanced technology into logistics operations is no longer a luxury but a necessity.</p><ul><li>IoT and real-time tracking</li><li>Route optimization</li><li>Warehouse robotics</li></ul>",
		author:     DemoAdminEmail,
		categories: []string{"Technology", "Logistics"},
		tags:       []string{"Innovation", "Cloud", "IoT"},
		featured:   true,
		published:  true,
		views:      1250,
		date:       "2025-06-15",
	},
	{
		title:      "Artificial Intelligence in the Supply Chain",
		excerpt:    "Machine learning models forecast demand and keep inventory lean.",
		content:    "<p>Demand forecasting with machine learning reduces stockouts and overstock alike.</p>",
		author:     DemoAuthorEmail,
		categories: []string{"AI", "Logistics"},
		tags:       []string{"Machine Learning", "Supply Chain", "Automation"},
		featured:   true,
		published:  true,
		views:      980,
		date:       "2025-07-10",
	},
	{
		title:      "Blockchain for Supply Chain Transparency",
		excerpt:    "Shared ledgers give every party the same view of a shipment.",
		content:    "<p>Tamper-evident records make provenance auditable from factory to shelf.</p>",
		author:     DemoAdminEmail,
		categories: []string{"Blockchain", "Technology"},
		tags:       []string{"Supply Chain", "Innovation"},
		published:  true,
		views:      750,
		date:       "2025-08-05",
	},
	{
		title:      "Sustainability in Modern Logistics",
		excerpt:    "Electric fleets, smarter routing and the carbon math behind them.",
		content:    "<p>Route optimization cuts fuel use before a single vehicle is replaced.</p>",
		author:     DemoAuthorEmail,
		categories: []string{"Sustainability", "Logistics"},
		tags:       []string{"Green Logistics", "Automation"},
		featured:   true,
		published:  true,
		views:      820,
		date:       "2025-09-20",
	},
	{
		title:      "The Future of Autonomous Vehicles in Logistics",
		excerpt:    "Self-driving trucks and delivery robots move from pilots to production.",
		content:    "<p>Autonomy first pays off on predictable middle-mile routes.</p>",
		author:     DemoAdminEmail,
		categories: []string{"Technology"},
		tags:       []string{"Innovation", "Automation", "IoT"},
		published:  true,
		views:      950,
		date:       "2025-10-15",
	},
	{
		title:      "Data Analysis for Optimizing Logistics Operations",
		excerpt:    "Turning telemetry into decisions with a modern analytics stack.",
		content:    "<p>Dashboards are only the start; the value is in closing the loop.</p>",
		author:     DemoAuthorEmail,
		categories: []string{"Technology", "AI"},
		tags:       []string{"Data Analysis", "Machine Learning", "Cloud"},
		published:  true,
		views:      780,
		date:       "2025-11-05",
	},
	{
		title:      "Warehouse Robotics: A Buyer's Checklist",
		excerpt:    "What to ask before automating a picking floor.",
		content:    "<p>Draft notes on throughput, integration and maintenance contracts.</p>",
		author:     DemoAuthorEmail,
		categories: []string{"Logistics"},
		tags:       []string{"Automation"},
		date:       "2025-12-01",
	},
}

type seedComment struct {
	post    int // index into seedPosts
	name    string
	email   string
	user    string // email of a registered commenter, empty for guests
	content string
	date    string
}

var seedComments = []seedComment{
	{post: 0, name: "John Smith", email: "john@example.com", content: "Excellent article, very informative.", date: "2025-06-16"},
	{post: 0, name: "Mary Jones", email: "mary@example.com", content: "Real-time tracking changed how we run our depot.", date: "2025-06-17"},
	{post: 1, name: "Carl Stone", email: "carl@example.com", content: "Would love a follow-up on model monitoring.", date: "2025-07-11"},
	{post: 2, user: DemoReaderEmail, content: "Clear explanation of a topic that is usually overhyped.", date: "2025-08-06"},
}

// Seed loads demo users, categories, tags, posts and comments, then
// recomputes term counts. Seeding a store that already holds users fails.
func (s *Store) Seed(ctx context.Context) error {
	users := []*models.User{
		{Name: "Admin User", Email: DemoAdminEmail, Role: models.RoleAdmin,
			Bio: strPtr("Editor of the technology and logistics blog"),
			SocialLinks: models.SocialLinks{Twitter: "https://twitter.com", LinkedIn: "https://linkedin.com", GitHub: "https://github.com"}},
		{Name: "Author User", Email: DemoAuthorEmail, Role: models.RoleAuthor,
			Bio: strPtr("Writes about technology and logistics"),
			SocialLinks: models.SocialLinks{Twitter: "https://twitter.com", LinkedIn: "https://linkedin.com"}},
		{Name: "Reader User", Email: DemoReaderEmail, Role: models.RoleReader},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	byEmail := make(map[string]*models.User, len(users))
	for _, u := range users {
		u.PasswordHash = string(hash)
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		byEmail[u.Email] = u
	}

	for _, in := range seedCategories {
		if _, err := s.CreateTerm(ctx, models.TermCategory, in); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}
	for _, name := range seedTags {
		if _, err := s.CreateTerm(ctx, models.TermTag, blog.TermInput{Name: name}); err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
	}

	postIDs := make([]uuid.UUID, len(seedPosts))
	for i, sp := range seedPosts {
		at, err := time.Parse(time.DateOnly, sp.date)
		if err != nil {
			return fmt.Errorf("seed post date %q: %w", sp.date, err)
		}
		status := models.PostStatusDraft
		if sp.published {
			status = models.PostStatusPublished
		}
		p, err := blog.NewPost(byEmail[sp.author], blog.PostInput{
			Title:      sp.title,
			Content:    sp.content,
			Excerpt:    sp.excerpt,
			Categories: sp.categories,
			Tags:       sp.tags,
			Status:     status,
			Featured:   sp.featured,
		}, at)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", sp.title, err)
		}
		p.ViewCount = sp.views

		s.mu.Lock()
		s.posts[p.ID] = p
		s.mu.Unlock()
		postIDs[i] = p.ID
	}

	for _, sc := range seedComments {
		at, err := time.Parse(time.DateOnly, sc.date)
		if err != nil {
			return fmt.Errorf("seed comment date %q: %w", sc.date, err)
		}
		c, err := blog.NewComment(byEmail[sc.user], blog.CommentInput{
			PostID:     postIDs[sc.post],
			Content:    sc.content,
			GuestName:  sc.name,
			GuestEmail: sc.email,
		}, at)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		s.mu.Lock()
		s.comments[c.ID] = c
		s.mu.Unlock()
	}

	return s.RecomputeTermCounts(ctx)
}

func strPtr(s string) *string { return &s }
