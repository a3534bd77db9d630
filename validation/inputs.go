package validation

import (
	"fmt"
	"strings"

	"medmind-server/models"
)

const (
	MinAge = 1
	MaxAge = 120
)

type RegisterInput struct {
	FullName string  `json:"fullName" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Age      FlexInt `json:"age"`
	Gender   string  `json:"gender" validate:"omitempty,gender"`
}

// Normalize trims names, lower-cases the email and the gender.
func (in *RegisterInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = NormalizeEmail(in.Email)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
}

// MissingFields lists required fields that are blank.
func (in *RegisterInput) MissingFields() []string {
	var missing []string
	if in.FullName == "" {
		missing = append(missing, "fullName")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

func ValidateRegistration(in *RegisterInput) Result {
	errs := check(in)
	if in.Age.Set && (!in.Age.Valid || in.Age.Value < MinAge || in.Age.Value > MaxAge) {
		errs = append(errs, FieldError{
			Field:   "age",
			Message: fmt.Sprintf("Age must be a whole number between %d and %d", MinAge, MaxAge),
		})
	}
	return result(errs)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
}

func (in *LoginInput) MissingFields() []string {
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

type FeedbackInput struct {
	Rating       FlexInt  `json:"rating"`
	Emotions     []string `json:"emotions" validate:"omitempty,dive,emotion"`
	EaseOfUse    FlexInt  `json:"easeOfUse"`
	Message      string   `json:"message" validate:"required,max=2000"`
	Name         string   `json:"name" validate:"omitempty,max=100"`
	Email        string   `json:"email" validate:"omitempty,email,max=255"`
	WantsUpdates bool     `json:"wantsUpdates"`
	Category     string   `json:"category"`
}

// Normalize trims text, lower-cases tags, collapses duplicate emotions and
// applies the easeOfUse and category defaults. Rating is left untouched so
// that an out-of-range value is still reported.
func (in *FeedbackInput) Normalize() {
	in.Message = strings.TrimSpace(in.Message)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	seen := make(map[string]bool, len(in.Emotions))
	emotions := make([]string, 0, len(in.Emotions))
	for _, e := range in.Emotions {
		e = strings.ToLower(strings.TrimSpace(e))
		if seen[e] {
			continue
		}
		seen[e] = true
		emotions = append(emotions, e)
	}
	in.Emotions = emotions

	if !in.EaseOfUse.Valid || in.EaseOfUse.Value < models.MinScore || in.EaseOfUse.Value > models.MaxScore {
		in.EaseOfUse = Int(models.DefaultEaseOfUse)
	}

	category := models.Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if !category.IsValid() {
		category = models.CategoryGeneral
	}
	in.Category = string(category)
}

func (in *FeedbackInput) MissingFields() []string {
	var missing []string
	if !in.Rating.Set {
		missing = append(missing, "rating")
	}
	if strings.TrimSpace(in.Message) == "" {
		missing = append(missing, "message")
	}
	return missing
}

func ValidateFeedback(in *FeedbackInput) Result {
	var errs []FieldError
	if !in.Rating.Valid || in.Rating.Value < models.MinScore || in.Rating.Value > models.MaxScore {
		errs = append(errs, FieldError{
			Field:   "rating",
			Message: fmt.Sprintf("Rating must be a whole number between %d and %d", models.MinScore, models.MaxScore),
		})
	}
	errs = append(errs, check(in)...)
	return result(errs)
}

// EmotionTags converts validated emotion strings to model values.
func (in *FeedbackInput) EmotionTags() []models.Emotion {
	tags := make([]models.Emotion, 0, len(in.Emotions))
	for _, e := range in.Emotions {
		tags = append(tags, models.Emotion(e))
	}
	return tags
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SymptomSession is the symptom checker state the client carries between
// messages: the detected category, how many follow-up questions were asked
// and the answers so far.
type SymptomSession struct {
	Category string   `json:"category,omitempty" validate:"omitempty,symptom"`
	Asked    int      `json:"asked" validate:"min=0,max=5"`
	Answers  []string `json:"answers,omitempty" validate:"max=6,dive,max=2000"`
}

type AssistantInput struct {
	Message  string         `json:"message" validate:"required,max=2000"`
	Language string         `json:"language" validate:"omitempty,language"`
	Age      FlexInt        `json:"age"`
	Gender   string         `json:"gender" validate:"omitempty,gender"`
	Session  SymptomSession `json:"session"`
}

func (in *AssistantInput) Normalize() {
	in.Message = strings.TrimSpace(in.Message)
	in.Language = strings.TrimSpace(in.Language)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Session.Category = strings.ToLower(strings.TrimSpace(in.Session.Category))
}

func (in *AssistantInput) MissingFields() []string {
	if in.Message == "" {
		return []string{"message"}
	}
	return nil
}

// ValidateAssistant checks the message and that the session is one this
// server could have produced.
func ValidateAssistant(in *AssistantInput) Result {
	errs := check(in)
	if in.Age.Set && (!in.Age.Valid || in.Age.Value < MinAge || in.Age.Value > MaxAge) {
		errs = append(errs, FieldError{
			Field:   "age",
			Message: fmt.Sprintf("Age must be a whole number between %d and %d", MinAge, MaxAge),
		})
	}
	if in.Session.Category == "" && (in.Session.Asked != 0 || len(in.Session.Answers) != 0) {
		errs = append(errs, FieldError{
			Field:   "session",
			Message: "Session has answers but no symptom category",
		})
	}
	return result(errs)
}
