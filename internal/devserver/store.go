package devserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"annfsu/app/internal/ids"
	"annfsu/app/internal/models"
)

var (
	errDuplicateUser = errors.New("email or phone already registered")
	errUserNotFound  = errors.New("user not found")
	errInvalidOTP    = errors.New("invalid otp")
	errExpiredOTP    = errors.New("otp expired")
)

type userRecord struct {
	models.UserProfile
	PasswordHash string
	Created      time.Time
}

// public strips fields the contract only exposes for approved members.
func (r userRecord) public() models.UserProfile {
	u := r.UserProfile
	u.CreatedAt = r.Created.UTC().Format(time.RFC3339)
	if u.Status != models.StatusApproved {
		u.MembershipID = ""
		u.IssueDate = ""
	}
	return u
}

type otpRecord struct {
	Code     string
	ExpireAt time.Time
	Used     bool
}

type songRecord struct {
	models.Song
	AudioData string
}

// memStore holds all dev-server state. One mutex guards everything; this is
// a development fixture, not a production datastore.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*userRecord
	otps       map[string]*otpRecord
	content    map[string]*models.ContentItem
	songs      map[string]*songRecord
	contacts   []models.Contact
	activities []models.AdminActivity
	issued     int
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*userRecord{},
		otps:    map[string]*otpRecord{},
		content: map[string]*models.ContentItem{},
		songs:   map[string]*songRecord{},
	}
}

func (s *memStore) createUser(user models.UserProfile, passwordHash string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Phone == user.Phone {
			return models.UserProfile{}, errDuplicateUser
		}
		if user.Username != "" && strings.EqualFold(existing.Username, user.Username) {
			return models.UserProfile{}, errDuplicateUser
		}
	}

	user.ID = ids.New()
	record := &userRecord{
		UserProfile:  user,
		PasswordHash: passwordHash,
		Created:      time.Now(),
	}
	s.users[user.ID] = record
	return record.public(), nil
}

// findByIdentifier matches email, username or phone. Lookups return a copy
// of the record; handlers read it after the lock is gone.
func (s *memStore) findByIdentifier(identifier string) (userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if strings.EqualFold(record.Email, identifier) ||
			record.Phone == identifier ||
			(record.Username != "" && strings.EqualFold(record.Username, identifier)) {
			return *record, true
		}
	}
	return userRecord{}, false
}

func (s *memStore) findByPhone(phone string) (userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if record.Phone == phone {
			return *record, true
		}
	}
	return userRecord{}, false
}

func (s *memStore) getUser(id string) (userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[id]
	if !ok {
		return userRecord{}, false
	}
	return *record, true
}

// updateUser applies mutate under the lock and returns the public view.
func (s *memStore) updateUser(id string, mutate func(*userRecord) error) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, errUserNotFound
	}
	if err := mutate(record); err != nil {
		return models.UserProfile{}, err
	}
	return record.public(), nil
}

// approveUser assigns the next sequential membership ID unless the member
// already held one (re-enable path keeps the original card number).
func (s *memStore) approveUser(id string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, errUserNotFound
	}

	record.Status = models.StatusApproved
	if record.MembershipID == "" {
		s.issued++
		record.MembershipID = fmt.Sprintf("ANNFSU-%05d", s.issued)
		record.IssueDate = time.Now().UTC().Format(time.RFC3339)
	}
	return record.public(), nil
}

func (s *memStore) listUsers(statusFilter models.Status) []models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*userRecord, 0, len(s.users))
	for _, record := range s.users {
		if statusFilter != "" && record.Status != statusFilter {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.After(records[j].Created)
	})

	users := make([]models.UserProfile, 0, len(records))
	for _, record := range records {
		users = append(users, record.public())
	}
	return users
}

func (s *memStore) stats() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.DashboardStats{
		TotalContent:  len(s.content),
		TotalSongs:    len(s.songs),
		TotalContacts: len(s.contacts),
	}
	for _, record := range s.users {
		if record.Role == models.RoleMember {
			stats.TotalMembers++
		}
		switch record.Status {
		case models.StatusPending:
			stats.PendingRequests++
		case models.StatusApproved:
			stats.ApprovedMembers++
		case models.StatusRejected:
			stats.RejectedMembers++
		}
	}
	return stats
}

func (s *memStore) putOTP(phone, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[phone] = &otpRecord{
		Code:     code,
		ExpireAt: time.Now().Add(ttl),
	}
}

// consumeOTP validates and burns a code; a code is single-use.
func (s *memStore) consumeOTP(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.otps[phone]
	if !ok || record.Used || record.Code != code {
		return errInvalidOTP
	}
	if time.Now().After(record.ExpireAt) {
		return errExpiredOTP
	}
	record.Used = true
	return nil
}

func (s *memStore) addContent(item models.ContentItem) models.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = ids.New()
	now := time.Now().UTC().Format(time.RFC3339)
	item.CreatedAt = now
	item.UpdatedAt = now
	s.content[item.ID] = &item
	return item
}

func (s *memStore) listContent(contentType models.ContentType) []models.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.ContentItem, 0)
	for _, item := range s.content {
		if item.Type == contentType {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items
}

func (s *memStore) deleteContent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[id]; !ok {
		return false
	}
	delete(s.content, id)
	return true
}

func (s *memStore) addSong(song models.Song, audioData string) models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	song.ID = ids.New()
	song.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.songs[song.ID] = &songRecord{Song: song, AudioData: audioData}
	return song
}

func (s *memStore) listSongs() []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs := make([]models.Song, 0, len(s.songs))
	for _, record := range s.songs {
		songs = append(songs, record.Song)
	}
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].CreatedAt > songs[j].CreatedAt
	})
	return songs
}

func (s *memStore) songAudio(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.songs[id]
	if !ok {
		return "", false
	}
	return record.AudioData, true
}

func (s *memStore) addContact(contact models.Contact) models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact.ID = ids.New()
	contact.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.contacts = append(s.contacts, contact)
	return contact
}

func (s *memStore) listContacts(committee models.Committee) []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, contact := range s.contacts {
		if committee != "" && contact.Committee != committee {
			continue
		}
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Order < contacts[j].Order
	})
	return contacts
}

func (s *memStore) logActivity(admin models.UserProfile, action, targetType, targetID string, details map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = append(s.activities, models.AdminActivity{
		ID:         ids.New(),
		AdminID:    admin.ID,
		AdminName:  admin.FullName,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *memStore) listActivities(limit int) []models.AdminActivity {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities := make([]models.AdminActivity, len(s.activities))
	copy(activities, s.activities)
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp > activities[j].Timestamp
	})
	if limit > 0 && limit < len(activities) {
		activities = activities[:limit]
	}
	return activities
}
