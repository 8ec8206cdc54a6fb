package devserver

import (
	"encoding/base64"

	"annfsu/app/internal/models"
)

const seedAdminEmail = "admin@annfsu.org"

// seed provisions the default super-admin and a little sample content so a
// fresh dev backend is immediately usable.
func (s *Server) seed() {
	passwordHash, err := hashPassword("admin123")
	if err != nil {
		s.log.Error().Err(err).Msg("seed admin hash failed")
		return
	}

	admin, err := s.store.createUser(models.UserProfile{
		Username:    "admin",
		Email:       seedAdminEmail,
		FullName:    "Admin User",
		Phone:       "9851234567",
		Address:     "Kathmandu, Nepal",
		Institution: "ANNFSU Central Office",
		Committee:   models.CommitteeCentral,
		Position:    "System Administrator",
		BloodGroup:  "O+",
		Role:        models.RoleSuperAdmin,
	}, passwordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("seed admin failed")
		return
	}
	if _, err := s.store.approveUser(admin.ID); err != nil {
		s.log.Error().Err(err).Msg("seed admin approve failed")
	}

	adminRecord, _ := s.store.getUser(admin.ID)
	adminPublic := adminRecord.public()

	s.store.addContent(models.ContentItem{
		Type:      models.ContentNews,
		TitleNe:   "स्वागत छ",
		ContentNe: "अनेरास्ववियु सदस्यता एपमा स्वागत छ।",
		AuthorID:  adminPublic.ID,
	})
	s.store.addContent(models.ContentItem{
		Type:      models.ContentOath,
		TitleNe:   "शपथ",
		ContentNe: "म विद्यार्थी हित र राष्ट्रिय स्वाधीनताको पक्षमा उभिने शपथ लिन्छु।",
		AuthorID:  adminPublic.ID,
	})
	s.store.addContact(models.Contact{
		NameNe:        "केन्द्रीय कार्यालय",
		DesignationNe: "सम्पर्क",
		PhoneNumber:   "01-4123456",
		Committee:     models.CommitteeCentral,
		Order:         1,
	})
	s.store.addSong(models.Song{
		TitleNe:  "संगठनको गीत",
		Category: "organizational",
		Duration: "02:30",
	}, base64.StdEncoding.EncodeToString([]byte("sample-audio")))

	s.log.Info().Str("email", seedAdminEmail).Msg("seeded dev admin")
}
