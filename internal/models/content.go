package models

type ContentType string

const (
	ContentNews         ContentType = "news"
	ContentKnowledge    ContentType = "knowledge"
	ContentConstitution ContentType = "constitution"
	ContentOath         ContentType = "oath"
	ContentQuotes       ContentType = "quotes"
	ContentAbout        ContentType = "about"
)

var ContentTypes = []ContentType{
	ContentNews,
	ContentKnowledge,
	ContentConstitution,
	ContentOath,
	ContentQuotes,
	ContentAbout,
}

func (t ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ContentItem carries Nepali-language editorial content (news, knowledge
// base, constitution, oath, quotes, about).
type ContentItem struct {
	ID        string      `json:"id"`
	Type      ContentType `json:"type"`
	TitleNe   string      `json:"title_ne"`
	ContentNe string      `json:"content_ne"`
	Images    []string    `json:"images,omitempty"`
	AuthorID  string      `json:"author_id,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

type Song struct {
	ID         string `json:"id"`
	TitleNe    string `json:"title_ne"`
	Category   string `json:"category"`
	Duration   string `json:"duration"`
	UploadedBy string `json:"uploaded_by,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type Contact struct {
	ID            string    `json:"id"`
	NameNe        string    `json:"name_ne"`
	DesignationNe string    `json:"designation_ne"`
	PhoneNumber   string    `json:"phone_number"`
	Committee     Committee `json:"committee"`
	Order         int       `json:"order"`
	CreatedAt     string    `json:"created_at,omitempty"`
}

type DashboardStats struct {
	TotalMembers    int `json:"total_members"`
	PendingRequests int `json:"pending_requests"`
	ApprovedMembers int `json:"approved_members"`
	RejectedMembers int `json:"rejected_members"`
	TotalContent    int `json:"total_content"`
	TotalSongs      int `json:"total_songs"`
	TotalContacts   int `json:"total_contacts"`
}

// AdminActivity is one entry of the admin audit trail.
type AdminActivity struct {
	ID         string         `json:"id"`
	AdminID    string         `json:"admin_id"`
	AdminName  string         `json:"admin_name"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  string         `json:"timestamp"`
}
