package types

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType identifies the kind of marketing copy being generated.
type ContentType string

const (
	ProductDescription ContentType = "Product Description"
	FacebookPost       ContentType = "Facebook Post"
	InstagramCaption   ContentType = "Instagram Caption"
	Tweet              ContentType = "Tweet"
	LinkedInPost       ContentType = "LinkedIn Post"
)

// ContentTypes lists every content type in display order.
var ContentTypes = []ContentType{ProductDescription, FacebookPost, InstagramCaption, Tweet, LinkedInPost}

// Tone is the voice the copy should adopt.
type Tone string

const (
	Professional Tone = "Professional"
	Casual       Tone = "Casual"
	Witty        Tone = "Witty"
	Persuasive   Tone = "Persuasive"
	Empathetic   Tone = "Empathetic"
	Bold         Tone = "Bold"
)

var Tones = []Tone{Professional, Casual, Witty, Persuasive, Empathetic, Bold}

// Length is the requested size of the copy.
type Length string

const (
	Short  Length = "Short"
	Medium Length = "Medium"
	Long   Length = "Long"
)

var Lengths = []Length{Short, Medium, Long}

// GenerationConfig is the draft the user edits on the configuration form.
// Form and JSON tags are used by the HTTP layer for binding.
type GenerationConfig struct {
	ContentType    ContentType `form:"contentType" json:"contentType" yaml:"contentType" binding:"required,oneof='Product Description' 'Facebook Post' 'Instagram Caption' Tweet 'LinkedIn Post'"`
	ProductName    string      `form:"productName" json:"productName" yaml:"productName"`
	TargetAudience string      `form:"targetAudience" json:"targetAudience" yaml:"targetAudience"`
	Features       string      `form:"features" json:"features" yaml:"features"` // one feature per line
	Tone           Tone        `form:"tone" json:"tone" yaml:"tone" binding:"required,oneof=Professional Casual Witty Persuasive Empathetic Bold"`
	Length         Length      `form:"length" json:"length" yaml:"length" binding:"required,oneof=Short Medium Long"`
	Creativity     float64     `form:"creativity" json:"creativity" yaml:"creativity" binding:"gte=0,lte=1"`
}

// DefaultGenerationConfig returns the configuration shown on a fresh form.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		ContentType:    ProductDescription,
		ProductName:    "SmartHome Hub",
		TargetAudience: "Tech-savvy homeowners",
		Features:       "- Voice-activated controls\n- Integrates with 200+ smart devices\n- Energy-saving scheduling",
		Tone:           Persuasive,
		Length:         Medium,
		Creativity:     0.7,
	}
}

var ErrInvalidConfig = errors.New("invalid generation config")

// Validate checks the enum fields and the creativity range. Free-text fields
// are accepted as-is, including empty strings.
func (c GenerationConfig) Validate() error {
	if !c.ContentType.Valid() {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidConfig, c.ContentType)
	}
	if !c.Tone.Valid() {
		return fmt.Errorf("%w: unknown tone %q", ErrInvalidConfig, c.Tone)
	}
	if !c.Length.Valid() {
		return fmt.Errorf("%w: unknown length %q", ErrInvalidConfig, c.Length)
	}
	if c.Creativity < 0 || c.Creativity > 1 {
		return fmt.Errorf("%w: creativity %.2f outside [0, 1]", ErrInvalidConfig, c.Creativity)
	}
	return nil
}

func (t ContentType) Valid() bool { return contains(ContentTypes, t) }
func (t Tone) Valid() bool        { return contains(Tones, t) }
func (l Length) Valid() bool      { return contains(Lengths, l) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Role is the author of a message in the conversation.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Title returns the role with its first letter upper-cased, e.g. "User".
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Message is a single turn shown in the conversation view.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// PerformanceMetrics holds timing for the most recent request only.
type PerformanceMetrics struct {
	GenerationTime string `json:"generationTime"` // seconds, two decimals
}

// View is which page the user sees.
type View string

const (
	ViewConfiguration View = "configuration"
	ViewConversation  View = "conversation"
)
