package models

import (
	"time"
)

type Emotion string

const (
	EmotionHappy      Emotion = "happy"
	EmotionConfused   Emotion = "confused"
	EmotionSurprised  Emotion = "surprised"
	EmotionFrustrated Emotion = "frustrated"
)

// Emotions lists the accepted emotion tags.
var Emotions = []Emotion{EmotionHappy, EmotionConfused, EmotionSurprised, EmotionFrustrated}

func (e Emotion) IsValid() bool {
	for _, v := range Emotions {
		if e == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryGeneral        Category = "general"
	CategoryBugReport      Category = "bug_report"
	CategoryFeatureRequest Category = "feature_request"
	CategoryUsability      Category = "usability"
	CategoryContent        Category = "content"
	CategoryOther          Category = "other"
)

// Categories lists the accepted feedback categories.
var Categories = []Category{
	CategoryGeneral,
	CategoryBugReport,
	CategoryFeatureRequest,
	CategoryUsability,
	CategoryContent,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

const (
	MinScore         = 1
	MaxScore         = 5
	DefaultEaseOfUse = 3
	MaxMessageLength = 2000
	MaxNameLength    = 100
)

// Feedback is an append-only feedback submission. Request metadata is
// stored but never serialized.
type Feedback struct {
	ID           string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Rating       int       `json:"rating" bson:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Emotions     []Emotion `json:"emotions" bson:"emotions" gorm:"serializer:json"`
	EaseOfUse    int       `json:"easeOfUse" bson:"easeOfUse" gorm:"not null;default:3"`
	Message      string    `json:"message" bson:"message" gorm:"type:text;not null"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty" gorm:"size:100"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty" gorm:"size:255"`
	WantsUpdates bool      `json:"wantsUpdates" bson:"wantsUpdates"`
	Category     Category  `json:"category" bson:"category" gorm:"size:32;not null;default:general;index"`
	UserAgent    string    `json:"-" bson:"userAgent,omitempty" gorm:"size:500"`
	IPAddress    string    `json:"-" bson:"ipAddress,omitempty" gorm:"size:45"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime;index"`
}

// TableName sets custom table name
func (Feedback) TableName() string { return "feedback" }

// RatingSummary is the overall block of the analytics report.
type RatingSummary struct {
	TotalFeedbacks     int64   `json:"totalFeedbacks" bson:"totalFeedbacks"`
	AverageRating      float64 `json:"averageRating" bson:"averageRating"`
	AverageEaseOfUse   float64 `json:"averageEaseOfUse" bson:"averageEaseOfUse"`
	RatingDistribution []int   `json:"ratingDistribution" bson:"ratingDistribution"`
}

type EmotionStat struct {
	Emotion Emotion `json:"_id" bson:"_id"`
	Count   int64   `json:"count" bson:"count"`
}

type CategoryStat struct {
	Category      Category `json:"_id" bson:"_id"`
	Count         int64    `json:"count" bson:"count"`
	AverageRating float64  `json:"averageRating" bson:"averageRating"`
}

// FeedbackAnalytics is the aggregate report over all feedback.
type FeedbackAnalytics struct {
	Analytics     RatingSummary  `json:"analytics"`
	EmotionStats  []EmotionStat  `json:"emotionStats"`
	CategoryStats []CategoryStat `json:"categoryStats"`
}
