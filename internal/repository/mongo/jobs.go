package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

// JobRepository persists job listings and their embedding lifecycle fields.
type JobRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func NewJobRepository(col *mongo.Collection, logger *zap.Logger) *JobRepository {
	return &JobRepository{col: col, logger: logger}
}

type jobDoc struct {
	ID                primitive.ObjectID `bson:"_id"`
	Title             nullString         `bson:"title"`
	Description       nullString         `bson:"description"`
	EmploymentType    nullString         `bson:"employmentType"`
	EmploymentTypeAlt nullString         `bson:"employment_type"`
	WorkModel         nullString         `bson:"workModel"`
	WorkModelAlt      nullString         `bson:"work_model"`
	ExperienceRange   struct {
		Summary nullString `bson:"summary"`
	} `bson:"experienceRange"`
	SkillsRequired stringList   `bson:"skillsRequired"`
	Skills         stringList   `bson:"skills"`
	Industry       stringList   `bson:"industry"`
	Industries     stringList   `bson:"industries"`
	Locations      locationList `bson:"locations"`
	Location       locationList `bson:"location"`
	UpdatedAt      nullTime     `bson:"updatedAt"`

	EmbeddingVector      []float64  `bson:"job_embedding_vector"`
	EmbeddingModel       nullString `bson:"job_embedding_model"`
	EmbeddingDimensions  int        `bson:"job_embedding_dimensions"`
	EmbeddingStatus      nullString `bson:"job_embedding_status"`
	EmbeddingGeneratedAt nullTime   `bson:"job_embedding_last_generated_at"`
	EmbeddingError       nullString `bson:"job_embedding_error"`
}

func (d *jobDoc) toDomain() domain.Job {
	job := domain.Job{
		ID:                d.ID.Hex(),
		Title:             string(d.Title),
		Description:       string(d.Description),
		EmploymentType:    firstNonEmpty(string(d.EmploymentType), string(d.EmploymentTypeAlt)),
		WorkModel:         firstNonEmpty(string(d.WorkModel), string(d.WorkModelAlt)),
		ExperienceSummary: string(d.ExperienceRange.Summary),
		Skills:            d.SkillsRequired,
		Industries:        d.Industry,
		Locations:         d.Locations,
		Embedding: domain.EmbeddingMeta{
			Vector:      d.EmbeddingVector,
			Model:       string(d.EmbeddingModel),
			Dimensions:  d.EmbeddingDimensions,
			GeneratedAt: d.EmbeddingGeneratedAt.Value,
			Status:      domain.EmbeddingStatus(d.EmbeddingStatus),
			Error:       string(d.EmbeddingError),
		},
	}
	if len(job.Skills) == 0 {
		job.Skills = d.Skills
	}
	if len(job.Industries) == 0 {
		job.Industries = d.Industries
	}
	if len(job.Locations) == 0 {
		job.Locations = d.Location
	}
	if d.UpdatedAt.Value != nil {
		job.UpdatedAt = *d.UpdatedAt.Value
	}
	return job
}

// Get fetches a job by hex id. Malformed ids and absent documents both map
// to ErrNotFound so the transport returns a uniform 404.
func (r *JobRepository) Get(ctx context.Context, id string) (domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}

	var doc jobDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("find job %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// SetProcessing claims a job for embedding generation.
func (r *JobRepository) SetProcessing(ctx context.Context, id string) error {
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"job_embedding_status": string(domain.StatusProcessing),
		"job_embedding_error":  nil,
	})
}

// SaveEmbedding persists a freshly generated vector and flips the job to
// ready in a single update.
func (r *JobRepository) SaveEmbedding(ctx context.Context, id string, vector []float64, model string) error {
	now := time.Now().UTC()
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"job_embedding_vector":            vector,
		"job_embedding_model":             model,
		"job_embedding_dimensions":        len(vector),
		"job_embedding_status":            string(domain.StatusReady),
		"job_embedding_last_generated_at": now,
		"job_embedding_error":             nil,
	})
}

// SetError records a failed generation attempt.
func (r *JobRepository) SetError(ctx context.Context, id string, msg string) error {
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"job_embedding_status": string(domain.StatusError),
		"job_embedding_error":  msg,
	})
}

func (r *JobRepository) updateEmbeddingFields(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListPendingEmbeddings returns jobs whose embedding needs (re)generation:
// status pending, stale or error, or no vector at all.
func (r *JobRepository) ListPendingEmbeddings(ctx context.Context, limit int64) ([]domain.Job, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"job_embedding_status": bson.M{"$in": bson.A{
			string(domain.StatusPending), string(domain.StatusStale), string(domain.StatusError),
		}}},
		bson.M{"job_embedding_vector": bson.M{"$exists": false}},
		bson.M{"job_embedding_vector": nil},
	}}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []domain.Job
	for cursor.Next(ctx) {
		var doc jobDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping undecodable job document", zap.Error(err))
			continue
		}
		jobs = append(jobs, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	return jobs, nil
}
