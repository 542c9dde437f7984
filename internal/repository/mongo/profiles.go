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

// Fields whose update invalidates a stored profile embedding.
var embeddingSensitiveFields = map[string]struct{}{
	"skills":                      {},
	"experience":                  {},
	"education":                   {},
	"courses":                     {},
	"personal_projects":           {},
	"awards_and_achievements":     {},
	"position_of_responsibility":  {},
	"competitions":                {},
	"extra_curricular_activities": {},
	"publications":                {},
	"personal_information":        {},
	"summary":                     {},
	"about":                       {},
	"industry":                    {},
	"socials":                     {},
}

// TouchesEmbeddingFields reports whether any updated field invalidates the
// profile embedding.
func TouchesEmbeddingFields(fields []string) bool {
	for _, f := range fields {
		if _, ok := embeddingSensitiveFields[f]; ok {
			return true
		}
	}
	return false
}

// ProfileRepository persists candidate profiles and runs the Atlas vector
// search primitive over their embeddings.
type ProfileRepository struct {
	col         *mongo.Collection
	vectorIndex string
	logger      *zap.Logger
}

func NewProfileRepository(col *mongo.Collection, vectorIndex string, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{col: col, vectorIndex: vectorIndex, logger: logger}
}

type personalDoc struct {
	FirstName   nullString `bson:"first_name"`
	LastName    nullString `bson:"last_name"`
	FullName    nullString `bson:"full_name"`
	Email       nullString `bson:"email"`
	Phone       nullString `bson:"phone"`
	PhoneNumber nullString `bson:"phone_number"`
	Location    locString  `bson:"location"`
}

type socialsDoc struct {
	GitHub   nullString `bson:"github"`
	LinkedIn nullString `bson:"linkedin"`
}

type experienceDoc struct {
	Company      nullString `bson:"company"`
	CompanyName  nullString `bson:"company_name"`
	Organization nullString `bson:"organization"`
	Position     nullString `bson:"position"`
	Role         nullString `bson:"role"`
	Title        nullString `bson:"title"`
	StartDate    dateValue  `bson:"start_date"`
	StartDateAlt dateValue  `bson:"startDate"`
	EndDate      dateValue  `bson:"end_date"`
	EndDateAlt   dateValue  `bson:"endDate"`
	Duration     textValue  `bson:"duration"`
	Years        textValue  `bson:"years"`
	Description  nullString `bson:"description"`
}

type profileDoc struct {
	ID         primitive.ObjectID  `bson:"_id"`
	UserID     *primitive.ObjectID `bson:"user"`
	Personal   personalDoc         `bson:"personal_information"`
	Socials    socialsDoc          `bson:"socials"`
	Location   locString           `bson:"location"`
	Skills     []skillEntry        `bson:"skills"`
	Experience []experienceDoc     `bson:"experience"`
	Summary    nullString          `bson:"summary"`
	About      nullString          `bson:"about"`
	UpdatedAt  nullTime            `bson:"updatedAt"`

	EmbeddingVector      []float64  `bson:"embedding_vector"`
	EmbeddingModel       nullString `bson:"embedding_model"`
	EmbeddingDimensions  int        `bson:"embedding_dimensions"`
	EmbeddingStatus      nullString `bson:"embedding_status"`
	EmbeddingGeneratedAt nullTime   `bson:"embedding_last_generated_at"`
	EmbeddingError       nullString `bson:"embedding_error"`

	// Populated only by the $vectorSearch projection.
	Score *float64 `bson:"score"`
}

func (d *profileDoc) toDomain() domain.Profile {
	p := domain.Profile{
		ID: d.ID.Hex(),
		Personal: domain.PersonalInfo{
			FirstName: string(d.Personal.FirstName),
			LastName:  string(d.Personal.LastName),
			FullName:  string(d.Personal.FullName),
			Email:     string(d.Personal.Email),
			Phone:     firstNonEmpty(string(d.Personal.Phone), string(d.Personal.PhoneNumber)),
			Location:  string(d.Personal.Location),
		},
		Socials: domain.Socials{
			GitHub:   string(d.Socials.GitHub),
			LinkedIn: string(d.Socials.LinkedIn),
		},
		Location: firstNonEmpty(string(d.Location), string(d.Personal.Location)),
		Summary:  firstNonEmpty(string(d.Summary), string(d.About)),
		Embedding: domain.EmbeddingMeta{
			Vector:      d.EmbeddingVector,
			Model:       string(d.EmbeddingModel),
			Dimensions:  d.EmbeddingDimensions,
			GeneratedAt: d.EmbeddingGeneratedAt.Value,
			Status:      domain.EmbeddingStatus(d.EmbeddingStatus),
			Error:       string(d.EmbeddingError),
		},
	}
	if d.UserID != nil {
		p.UserID = d.UserID.Hex()
	}
	if d.UpdatedAt.Value != nil {
		p.UpdatedAt = *d.UpdatedAt.Value
	}
	for _, s := range d.Skills {
		if s.Name == "" {
			continue
		}
		p.Skills = append(p.Skills, domain.Skill{Name: s.Name, Proficiency: s.Proficiency})
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, domain.Experience{
			Company:     firstNonEmpty(string(e.Company), string(e.CompanyName), string(e.Organization)),
			Title:       firstNonEmpty(string(e.Position), string(e.Role), string(e.Title)),
			StartDate:   pickDate(e.StartDate, e.StartDateAlt),
			EndDate:     pickDate(e.EndDate, e.EndDateAlt),
			Duration:    firstNonEmpty(string(e.Duration), string(e.Years)),
			Description: string(e.Description),
		})
	}
	return p
}

func pickDate(primary, alt dateValue) domain.DateValue {
	if primary.Time != nil || primary.Raw != "" {
		return primary.DateValue
	}
	return alt.DateValue
}

// Get fetches a profile by hex id.
func (r *ProfileRepository) Get(ctx context.Context, id string) (domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}

	var doc profileDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Profile{}, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("find profile %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// FindByUserIDs fetches profiles whose owning-user id is in ids. The user
// field is the application foreign key target, distinct from the profile _id.
// Malformed ids and undecodable documents are skipped with a warning.
func (r *ProfileRepository) FindByUserIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	oids := r.hexToObjectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"user": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find profiles by user ids: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.Profile
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping undecodable profile document", zap.Error(err))
			continue
		}
		profiles = append(profiles, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find profiles by user ids: %w", err)
	}
	return profiles, nil
}

// VectorSearch runs the Atlas $vectorSearch pipeline and returns profiles
// with their store-computed similarity scores. When userIDs is non-empty the
// ANN stage over-fetches and a post-$match restricts hits to that id set;
// matching is on the user field because applications reference it.
func (r *ProfileRepository) VectorSearch(ctx context.Context, queryVector []float64, limit int, userIDs []string) ([]domain.ScoredProfile, error) {
	oids := r.hexToObjectIDs(userIDs)

	searchLimit := limit
	if len(oids) > 0 {
		searchLimit = limit * 3
		if searchLimit > 500 {
			searchLimit = 500
		}
	}
	numCandidates := searchLimit * 2
	if numCandidates < 200 {
		numCandidates = 200
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: r.vectorIndex},
			{Key: "path", Value: "embedding_vector"},
			{Key: "queryVector", Value: queryVector},
			{Key: "limit", Value: searchLimit},
			{Key: "numCandidates", Value: numCandidates},
		}}},
	}
	if len(oids) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"user": bson.M{"$in": oids}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "user", Value: 1},
			{Key: "personal_information", Value: 1},
			{Key: "socials", Value: 1},
			{Key: "skills", Value: 1},
			{Key: "experience", Value: 1},
			{Key: "location", Value: 1},
			{Key: "embedding_model", Value: 1},
			{Key: "embedding_last_generated_at", Value: 1},
			{Key: "score", Value: bson.M{"$meta": "vectorSearchScore"}},
		}}},
	)

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var hits []domain.ScoredProfile
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping undecodable vector search hit", zap.Error(err))
			continue
		}
		score := 0.0
		if doc.Score != nil {
			score = *doc.Score
		}
		hits = append(hits, domain.ScoredProfile{Profile: doc.toDomain(), Score: score})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return hits, nil
}

// SetProcessing claims a profile for embedding generation.
func (r *ProfileRepository) SetProcessing(ctx context.Context, id string) error {
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"embedding_status": string(domain.StatusProcessing),
		"embedding_error":  nil,
	})
}

// SaveEmbedding persists a freshly generated vector and flips the profile
// to ready in a single update.
func (r *ProfileRepository) SaveEmbedding(ctx context.Context, id string, vector []float64, model string) error {
	now := time.Now().UTC()
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"embedding_vector":            vector,
		"embedding_model":             model,
		"embedding_dimensions":        len(vector),
		"embedding_status":            string(domain.StatusReady),
		"embedding_last_generated_at": now,
		"embedding_error":             nil,
	})
}

// SetError records a failed generation attempt.
func (r *ProfileRepository) SetError(ctx context.Context, id string, msg string) error {
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"embedding_status": string(domain.StatusError),
		"embedding_error":  msg,
	})
}

// MarkStale invalidates a stored embedding, forcing regeneration on the
// next search or backfill pass.
func (r *ProfileRepository) MarkStale(ctx context.Context, id string) error {
	return r.updateEmbeddingFields(ctx, id, bson.M{
		"embedding_status":            string(domain.StatusStale),
		"embedding_vector":            nil,
		"embedding_error":             nil,
		"embedding_last_generated_at": nil,
	})
}

func (r *ProfileRepository) updateEmbeddingFields(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListPendingEmbeddings returns profiles whose embedding needs
// (re)generation.
func (r *ProfileRepository) ListPendingEmbeddings(ctx context.Context, limit int64) ([]domain.Profile, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"embedding_status": bson.M{"$in": bson.A{
			string(domain.StatusPending), string(domain.StatusStale), string(domain.StatusError),
		}}},
		bson.M{"embedding_vector": bson.M{"$exists": false}},
		bson.M{"embedding_vector": nil},
	}}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.Profile
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping undecodable profile document", zap.Error(err))
			continue
		}
		profiles = append(profiles, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	return profiles, nil
}

// EnsureVectorIndex creates the Atlas vector search index over the profile
// embedding field when it does not already exist.
func (r *ProfileRepository) EnsureVectorIndex(ctx context.Context, dimensions int) error {
	definition := bson.D{{Key: "fields", Value: bson.A{bson.D{
		{Key: "type", Value: "vector"},
		{Key: "path", Value: "embedding_vector"},
		{Key: "numDimensions", Value: dimensions},
		{Key: "similarity", Value: "cosine"},
	}}}}

	_, err := r.col.SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(r.vectorIndex).SetType("vectorSearch"),
	})
	if err != nil {
		return fmt.Errorf("create vector index %s: %w", r.vectorIndex, err)
	}
	return nil
}

func (r *ProfileRepository) hexToObjectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			r.logger.Warn("Skipping malformed candidate id", zap.String("id", id))
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}
