// Package card renders the digital membership card. Only approved members
// hold a card; the QR payload mirrors what the verification desk scans.
package card

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"annfsu/app/internal/models"
)

// ErrNotApproved means the member has no card to show yet.
var ErrNotApproved = errors.New("card: membership not approved")

// Payload is the QR code's JSON value.
type Payload struct {
	ID           string           `json:"id"`
	MembershipID string           `json:"membership_id"`
	FullName     string           `json:"full_name"`
	Committee    models.Committee `json:"committee"`
}

type Card struct {
	User    models.UserProfile
	payload []byte
}

// New builds a card for an approved member.
func New(user models.UserProfile) (*Card, error) {
	if !user.IsApproved() || user.MembershipID == "" {
		return nil, ErrNotApproved
	}

	payload, err := json.Marshal(Payload{
		ID:           user.ID,
		MembershipID: user.MembershipID,
		FullName:     user.FullName,
		Committee:    user.Committee,
	})
	if err != nil {
		return nil, fmt.Errorf("encode card payload: %w", err)
	}

	return &Card{User: user, payload: payload}, nil
}

// QRPNG renders the QR code as PNG bytes, size pixels per side.
func (c *Card) QRPNG(size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(string(c.payload), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// QRTerminal renders the QR code as half-block art for terminal display.
func (c *Card) QRTerminal() (string, error) {
	code, err := qrcode.New(string(c.payload), qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return code.ToSmallString(false), nil
}

// Render returns the card's text form.
func (c *Card) Render() string {
	var b strings.Builder
	b.WriteString("ANNFSU सदस्यता कार्ड\n")
	fmt.Fprintf(&b, "नाम:        %s\n", c.User.FullName)
	fmt.Fprintf(&b, "सदस्यता नं: %s\n", c.User.MembershipID)
	fmt.Fprintf(&b, "समिति:      %s\n", c.User.Committee)
	fmt.Fprintf(&b, "संस्था:     %s\n", c.User.Institution)
	if c.User.Position != "" {
		fmt.Fprintf(&b, "पद:         %s\n", c.User.Position)
	}
	if c.User.BloodGroup != "" {
		fmt.Fprintf(&b, "रक्त समूह:  %s\n", c.User.BloodGroup)
	}
	fmt.Fprintf(&b, "जारी मिति:  %s\n", c.User.IssueDate)
	return b.String()
}
