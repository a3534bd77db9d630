package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"medmind-server/logger"
	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/validation"
)

// fakeGenerator answers by prompt kind and records every prompt.
type fakeGenerator struct {
	mu        sync.Mutex
	prompts   []string
	detect    string
	assess    string
	translate func(prompt string) (string, error)
	err       error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	switch {
	case strings.HasPrefix(prompt, "Translate"):
		if g.translate != nil {
			return g.translate(prompt)
		}
		return "", errors.New("no translation configured")
	case g.err != nil:
		return "", g.err
	case strings.HasPrefix(prompt, "You are a medical AI assistant"):
		return g.detect, nil
	case strings.HasPrefix(prompt, "Based on medical assessment"):
		return g.assess, nil
	}
	return "", errors.New("unexpected prompt")
}

func newTestAssistant(g TextGenerator) (*AssistantService, *metrics.Metrics) {
	m := metrics.New()
	return NewAssistantService(g, logger.Discard(), m), m
}

func ask(t *testing.T, svc *AssistantService, user *models.User, message string, session validation.SymptomSession) *AssistantReply {
	t.Helper()
	reply, err := svc.Reply(context.Background(), user, validation.AssistantInput{Message: message, Session: session})
	if err != nil {
		t.Fatalf("reply to %q: %v", message, err)
	}
	return reply
}

func TestAssistantFullConversationWithoutModel(t *testing.T) {
	svc, _ := newTestAssistant(nil)
	headache, _ := models.LookupSymptom("headache")

	reply := ask(t, svc, nil, "I have had a bad headache since yesterday", validation.SymptomSession{})
	if reply.Stage != StageQuestion || reply.Session.Category != "headache" || reply.Session.Asked != 1 {
		t.Fatalf("expected first question for headache, got %+v", reply)
	}
	if !strings.HasSuffix(reply.Reply, headache.Questions[0]) {
		t.Fatalf("expected acknowledgement to end with the first question, got %q", reply.Reply)
	}

	for i := 1; i < models.MaxFollowUps; i++ {
		reply = ask(t, svc, nil, "answer", reply.Session)
		if reply.Stage != StageQuestion || reply.Reply != headache.Questions[i] || reply.Session.Asked != i+1 {
			t.Fatalf("question %d: unexpected reply %+v", i, reply)
		}
	}
	if len(reply.Session.Answers) != models.MaxFollowUps {
		t.Fatalf("expected %d answers so far, got %d", models.MaxFollowUps, len(reply.Session.Answers))
	}

	reply = ask(t, svc, nil, "last answer", reply.Session)
	if reply.Stage != StageDiagnosis || !strings.Contains(reply.Reply, "Common headache condition") {
		t.Fatalf("expected template assessment, got %+v", reply)
	}
	if !strings.Contains(reply.Reply, disclaimer) {
		t.Fatalf("expected disclaimer in assessment")
	}
	if reply.Session.Category != "" || reply.Session.Asked != 0 {
		t.Fatalf("expected session to reset after the assessment, got %+v", reply.Session)
	}
	if reply.Language != models.English {
		t.Fatalf("expected English, got %+v", reply.Language)
	}
}

func TestAssistantOpeningMessages(t *testing.T) {
	svc, m := newTestAssistant(nil)
	cases := []struct {
		message string
		stage   string
	}{
		{"hello", StageGreeting},
		{"Namaste!", StageGreeting},
		{"hi, my throat pain is awful", StageQuestion},
		{"test", StageClarify},
		{"something feels off", StageClarify},
	}
	for _, tc := range cases {
		if reply := ask(t, svc, nil, tc.message, validation.SymptomSession{}); reply.Stage != tc.stage {
			t.Fatalf("%q: expected stage %s, got %+v", tc.message, tc.stage, reply)
		}
	}
	if got, err := testutil.GatherAndCount(m.Registry(), "medmind_assistant_replies_total"); err != nil || got != 3 {
		t.Fatalf("expected one reply series per stage, got %d (%v)", got, err)
	}
}

func TestAssistantRejectsBadInput(t *testing.T) {
	svc, _ := newTestAssistant(nil)
	cases := []validation.AssistantInput{
		{Message: "   "},
		{Message: "answer", Session: validation.SymptomSession{Category: "ghost", Asked: 1}},
		{Message: "answer", Session: validation.SymptomSession{Asked: 2}},
		{Message: "answer", Session: validation.SymptomSession{Category: "fever", Asked: 9}},
		{Message: "fever", Language: "Klingon"},
	}
	for _, in := range cases {
		_, err := svc.Reply(context.Background(), nil, in)
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestAssistantUsesModelDetection(t *testing.T) {
	g := &fakeGenerator{detect: "**TRANSLATION:** my head is pounding\n**SYMPTOM_CATEGORY:** migraine\n**CONFIDENCE:** 8"}
	svc, _ := newTestAssistant(g)

	reply := ask(t, svc, nil, "my head is pounding", validation.SymptomSession{})
	if reply.Session.Category != "migraine" {
		t.Fatalf("expected model category, got %+v", reply)
	}
}

func TestAssistantTranslatesReplies(t *testing.T) {
	g := &fakeGenerator{
		detect: "TRANSLATION: I have a fever\nSYMPTOM_CATEGORY: unsure\nCONFIDENCE: 3",
		translate: func(prompt string) (string, error) {
			if !strings.Contains(prompt, "to Hindi") {
				return "", errors.New("wrong language")
			}
			return "अनुवादित उत्तर", nil
		},
	}
	svc, _ := newTestAssistant(g)

	reply := ask(t, svc, nil, "मुझे बुखार है", validation.SymptomSession{})
	if reply.Session.Category != "fever" {
		t.Fatalf("expected low-confidence answer to fall back to the translation, got %+v", reply)
	}
	if reply.Language.Code != "hi" || reply.Reply != "अनुवादित उत्तर" {
		t.Fatalf("expected Hindi reply, got %+v", reply)
	}
}

func TestAssistantFallsBackToEnglishWhenTranslationFails(t *testing.T) {
	g := &fakeGenerator{detect: "SYMPTOM_CATEGORY: cough\nCONFIDENCE: 9"}
	svc, m := newTestAssistant(g)

	reply, err := svc.Reply(context.Background(), nil, validation.AssistantInput{Message: "I keep coughing", Language: "Tamil"})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Language != models.English || !strings.Contains(reply.Reply, "I understand you're experiencing") {
		t.Fatalf("expected English fallback, got %+v", reply)
	}
	if got, err := testutil.GatherAndCount(m.Registry(), "medmind_assistant_upstream_errors_total"); err != nil || got != 1 {
		t.Fatalf("expected one upstream error series, got %d (%v)", got, err)
	}
}

func TestAssistantAssessmentUsesProfile(t *testing.T) {
	g := &fakeGenerator{err: errors.New("quota exceeded")}
	svc, _ := newTestAssistant(g)
	age := 41
	user := &models.User{ID: "u1", Age: &age, Gender: models.GenderFemale}

	session := validation.SymptomSession{Category: "fever", Asked: models.MaxFollowUps, Answers: []string{"fever", "a", "b", "c", "d"}}
	reply := ask(t, svc, user, "e", session)
	if reply.Stage != StageDiagnosis || !strings.Contains(reply.Reply, "Common fever condition") {
		t.Fatalf("expected template after model failure, got %+v", reply)
	}

	g.err = nil
	g.assess = "Top 3 Possible Conditions:\n1. Influenza - 70% likelihood"
	reply = ask(t, svc, user, "e", session)
	if !strings.HasPrefix(reply.Reply, "Top 3 Possible Conditions:\n1. Influenza") || !strings.Contains(reply.Reply, disclaimer) {
		t.Fatalf("expected model assessment with disclaimer, got %q", reply.Reply)
	}
	last := g.prompts[len(g.prompts)-1]
	if !strings.Contains(last, "41 years old, female") || !strings.Contains(last, "fever | a | b | c | d | e") {
		t.Fatalf("expected profile and answers in the prompt, got %q", last)
	}
}

func TestParseDetection(t *testing.T) {
	category, confidence, translation := parseDetection("TRANSLATION: [I feel dizzy]\nSYMPTOM_CATEGORY: Dizziness\nCONFIDENCE: 7\n")
	if category != "dizziness" || confidence != 7 || translation != "I feel dizzy" {
		t.Fatalf("unexpected parse %q %d %q", category, confidence, translation)
	}
	if _, confidence, _ := parseDetection("no structure here"); confidence != 0 {
		t.Fatalf("expected zero confidence, got %d", confidence)
	}
}

func TestMatchSymptomPrefersLongestKeyword(t *testing.T) {
	c, ok := matchSymptom("Sharp CHEST PAIN when I breathe")
	if !ok || c.Key != "chest_pain" {
		t.Fatalf("expected chest_pain, got %+v", c)
	}
	if _, ok := matchSymptom("all good"); ok {
		t.Fatalf("expected no match")
	}
}
