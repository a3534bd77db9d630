package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medmind-server/models"
)

var (
	summaryPipeline = mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalFeedbacks", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "averageEaseOfUse", Value: bson.D{{Key: "$avg", Value: "$easeOfUse"}}},
			{Key: "ratingDistribution", Value: bson.D{{Key: "$push", Value: "$rating"}}},
		}}},
	}

	emotionPipeline = mongo.Pipeline{
		{{Key: "$unwind", Value: "$emotions"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$emotions"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	categoryPipeline = mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$category", string(models.CategoryGeneral)}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
)

// FeedbackAnalytics runs the three aggregation pipelines server side.
func (s *Store) FeedbackAnalytics(ctx context.Context) (*models.FeedbackAnalytics, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var summaries []models.RatingSummary
	if err := s.aggregate(ctx, summaryPipeline, &summaries); err != nil {
		return nil, err
	}

	report := &models.FeedbackAnalytics{
		Analytics:     models.RatingSummary{RatingDistribution: []int{}},
		EmotionStats:  []models.EmotionStat{},
		CategoryStats: []models.CategoryStat{},
	}
	if len(summaries) > 0 {
		report.Analytics = summaries[0]
	}

	if err := s.aggregate(ctx, emotionPipeline, &report.EmotionStats); err != nil {
		return nil, err
	}
	if err := s.aggregate(ctx, categoryPipeline, &report.CategoryStats); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := s.feedback.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
