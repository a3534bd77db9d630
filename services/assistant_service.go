package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/validation"
)

// Stages of a symptom checker reply.
const (
	StageGreeting  = "greeting"
	StageClarify   = "clarify"
	StageQuestion  = "question"
	StageDiagnosis = "diagnosis"
)

// minDetectionConfidence is the lowest model confidence (1-10) accepted for
// a detected category.
const minDetectionConfidence = 6

const disclaimer = "This is not professional medical advice. Consult a doctor for proper diagnosis and treatment."

var greetings = []string{
	"hi", "hello", "hey", "hii", "good morning", "good evening",
	"namaste", "नमस्ते", "హలో", "வணக்கம்", "নমস্কার", "નમસ્તે",
}

var placeholderInputs = map[string]bool{
	"test": true, "testing": true, "123": true, "abc": true, "xyz": true,
	".": true, "..": true, "???": true, "demo": true,
}

// AssistantReply is one turn of the symptom checker.
type AssistantReply struct {
	Reply    string                    `json:"reply"`
	Stage    string                    `json:"stage"`
	Language models.Language           `json:"language"`
	Session  validation.SymptomSession `json:"session"`
}

// AssistantService runs the symptom checker: detect the symptom category,
// ask its follow-up questions one at a time, then produce an assessment.
// The conversation state travels with the client, so the service keeps
// none. Without a generator it falls back to keyword detection, a fixed
// assessment template and English replies.
type AssistantService struct {
	generator TextGenerator
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewAssistantService builds the service. generator may be nil.
func NewAssistantService(generator TextGenerator, logger *slog.Logger, m *metrics.Metrics) *AssistantService {
	return &AssistantService{generator: generator, logger: logger, metrics: m}
}

// Reply answers one message from user. Age and gender default to the
// user's profile.
func (s *AssistantService) Reply(ctx context.Context, user *models.User, in validation.AssistantInput) (*AssistantReply, error) {
	in.Normalize()
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, validation.Missing("Please describe your symptoms to get started.", missing...)
	}
	if err := validation.ValidateAssistant(&in).Err(); err != nil {
		return nil, err
	}

	lang := models.DetectLanguage(in.Message)
	if in.Language != "" {
		lang, _ = models.LookupLanguage(in.Language)
	}

	reply := s.advance(ctx, user, in)
	reply.Reply, reply.Language = s.translate(ctx, reply.Reply, lang)

	s.metrics.AssistantReply(reply.Stage)
	s.logger.Info("assistant replied",
		"user_id", userID(user),
		"stage", reply.Stage,
		"category", reply.Session.Category,
		"language", reply.Language.Code,
	)
	return reply, nil
}

func (s *AssistantService) advance(ctx context.Context, user *models.User, in validation.AssistantInput) *AssistantReply {
	session := in.Session

	if session.Category == "" {
		if _, mentionsSymptom := matchSymptom(in.Message); isGreeting(in.Message) && !mentionsSymptom {
			return &AssistantReply{
				Stage: StageGreeting,
				Reply: "Hello! I'm your Smart Symptom Checker. Please describe your symptoms in detail.",
			}
		}
		if placeholderInputs[strings.ToLower(in.Message)] {
			return &AssistantReply{
				Stage: StageClarify,
				Reply: "Please describe your symptoms or health concerns in more detail.",
			}
		}

		category, ok := s.detect(ctx, in.Message)
		if !ok {
			return &AssistantReply{
				Stage: StageClarify,
				Reply: "I understand your health concern. Please describe your main symptom so I can help assess your condition.",
			}
		}
		return &AssistantReply{
			Stage: StageQuestion,
			Reply: fmt.Sprintf("I understand you're experiencing: %s\n\nLet me ask some targeted questions to help assess your condition.\n\n%s",
				in.Message, category.Questions[0]),
			Session: validation.SymptomSession{
				Category: category.Key,
				Asked:    1,
				Answers:  []string{in.Message},
			},
		}
	}

	category, _ := models.LookupSymptom(session.Category)
	session.Answers = append(append([]string(nil), session.Answers...), in.Message)

	if session.Asked < len(category.Questions) {
		question := category.Questions[session.Asked]
		session.Asked++
		return &AssistantReply{Stage: StageQuestion, Reply: question, Session: session}
	}

	age, gender := patient(user, in)
	return &AssistantReply{
		Stage: StageDiagnosis,
		Reply: s.assess(ctx, category, session.Answers, age, gender),
	}
}

// detect asks the model for a category and falls back to keyword matching.
func (s *AssistantService) detect(ctx context.Context, message string) (*models.SymptomCategory, bool) {
	if s.generator != nil {
		prompt := fmt.Sprintf(`You are a medical AI assistant. Analyze: %q

Provide:
TRANSLATION: [English translation if needed]
SYMPTOM_CATEGORY: [one of: %s]
CONFIDENCE: [1-10]

Choose the most specific category that matches.`, message, strings.Join(models.SymptomKeys(), ", "))

		out, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			s.upstreamFailed("detect", err)
		} else if key, confidence, translation := parseDetection(out); confidence >= minDetectionConfidence {
			if category, ok := models.LookupSymptom(key); ok {
				return category, true
			}
		} else if translation != "" {
			if category, ok := matchSymptom(translation); ok {
				return category, true
			}
		}
	}
	return matchSymptom(message)
}

// parseDetection reads the TRANSLATION / SYMPTOM_CATEGORY / CONFIDENCE lines.
func parseDetection(out string) (category string, confidence int, translation string) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.Trim(strings.Trim(value, " *"), "[]")
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "TRANSLATION":
			translation = value
		case "SYMPTOM_CATEGORY":
			category = strings.ToLower(value)
		case "CONFIDENCE":
			if n, err := strconv.Atoi(value); err == nil {
				confidence = n
			}
		}
	}
	return category, confidence, translation
}

// matchSymptom finds a category by keyword. The longest matching keyword
// wins so that "chest pain" beats "pain".
func matchSymptom(text string) (*models.SymptomCategory, bool) {
	text = strings.ToLower(text)
	var best *models.SymptomCategory
	bestLen := 0
	for _, key := range models.SymptomKeys() {
		category, _ := models.LookupSymptom(key)
		for _, kw := range category.Keywords {
			if len(kw) > bestLen && strings.Contains(text, kw) {
				best, bestLen = category, len(kw)
			}
		}
	}
	return best, best != nil
}

func (s *AssistantService) assess(ctx context.Context, category *models.SymptomCategory, answers []string, age, gender string) string {
	if s.generator != nil {
		prompt := fmt.Sprintf(`Based on medical assessment:
Patient: %s, %s
Category: %s
Responses: %s

Provide the assessment in this exact format:

Top 3 Possible Conditions:
1. [Condition] - [X]%% likelihood
2. [Condition] - [X]%% likelihood
3. [Condition] - [X]%% likelihood

Severity Assessment: [Low/Medium/High/Emergency]

Recommended Next Steps:
- [Action 1]
- [Action 2]

Self-Care Tips:
- [Tip 1]
- [Tip 2]

Use realistic percentages. Be specific with condition names.`, age, gender, category.Key, strings.Join(answers, " | "))

		out, err := s.generator.Generate(ctx, prompt)
		if err == nil {
			if !strings.Contains(out, disclaimer) {
				out += "\n\n" + disclaimer
			}
			return out
		}
		s.upstreamFailed("assess", err)
	}

	name := strings.ReplaceAll(category.Key, "_", " ")
	return fmt.Sprintf(`Top 3 Possible Conditions:
1. Common %[1]s condition - 60%% likelihood
2. Moderate related disorder - 25%% likelihood
3. Less common alternative - 15%% likelihood

Severity Assessment: Medium

Recommended Next Steps:
- Monitor symptoms and track changes
- Consult a healthcare provider if symptoms persist

Self-Care Tips:
- Rest and maintain good hydration
- Avoid known triggers

%[2]s`, name, disclaimer)
}

// translate renders text in lang. On failure the English text is returned
// together with the language actually used.
func (s *AssistantService) translate(ctx context.Context, text string, lang models.Language) (string, models.Language) {
	if lang.Code == models.English.Code || s.generator == nil {
		return text, models.English
	}
	out, err := s.generator.Generate(ctx, fmt.Sprintf(
		"Translate this medical text to %s. Keep numbers and line breaks. Provide only the translation:\n\n%s", lang.Name, text))
	if err != nil {
		s.upstreamFailed("translate", err)
		return text, models.English
	}
	return out, lang
}

func (s *AssistantService) upstreamFailed(op string, err error) {
	s.metrics.AssistantUpstreamError(op)
	s.logger.Warn("assistant model call failed", "op", op, "error", err)
}

func isGreeting(message string) bool {
	if len(message) >= 35 {
		return false
	}
	lower := strings.ToLower(message)
	for _, g := range greetings {
		if lower == g || strings.HasPrefix(lower, g+" ") || strings.HasPrefix(lower, g+"!") || strings.HasPrefix(lower, g+",") {
			return true
		}
	}
	return false
}

// patient describes the patient for the assessment prompt, preferring the
// request over the stored profile.
func patient(user *models.User, in validation.AssistantInput) (age, gender string) {
	age, gender = "age unknown", "gender unspecified"
	if user != nil {
		if user.Age != nil {
			age = fmt.Sprintf("%d years old", *user.Age)
		}
		if user.Gender != "" {
			gender = string(user.Gender)
		}
	}
	if in.Age.Set {
		age = fmt.Sprintf("%d years old", in.Age.Value)
	}
	if in.Gender != "" {
		gender = in.Gender
	}
	return age, gender
}

func userID(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
