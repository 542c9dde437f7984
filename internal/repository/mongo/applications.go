package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

const statusApplied = "Applied"

// ApplicationRepository reads job applications. The recommendation service
// never writes to this collection.
type ApplicationRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func NewApplicationRepository(col *mongo.Collection, logger *zap.Logger) *ApplicationRepository {
	return &ApplicationRepository{col: col, logger: logger}
}

type questionAnswerDoc struct {
	ID              *primitive.ObjectID `bson:"_id"`
	Question        nullString          `bson:"question"`
	CandidateAnswer *bool               `bson:"candidateAnswer"`
	ExpectedAnswer  *bool               `bson:"expectedAnswer"`
}

type stageTimestampsDoc struct {
	ID        *primitive.ObjectID `bson:"_id"`
	CreatedAt nullTime            `bson:"createdAt"`
	UpdatedAt nullTime            `bson:"updatedAt"`
}

type screeningStageDoc struct {
	ID          *primitive.ObjectID `bson:"_id"`
	Name        nullString          `bson:"name"`
	Order       int                 `bson:"order"`
	IsCompleted bool                `bson:"isCompleted"`
	Timestamps  *stageTimestampsDoc `bson:"timestamps"`
}

type applicationDoc struct {
	ID               primitive.ObjectID  `bson:"_id"`
	CandidateID      *primitive.ObjectID `bson:"candidateId"`
	JobID            *primitive.ObjectID `bson:"jobId"`
	CurrentStatus    nullString          `bson:"currentStatus"`
	InitialQuestions []questionAnswerDoc `bson:"initialQuestionsAnswers"`
	ScreeningStages  []screeningStageDoc `bson:"ruthiSideStages"`
	MovedToRecruiter bool                `bson:"movedToRecruiter"`
	Notes            nullString          `bson:"notes"`
	AppliedAt        nullTime            `bson:"appliedAt"`
	RecruiterStages  []bson.M            `bson:"recruiterSideStages"`
	Documents        []bson.M            `bson:"documents"`
	CreatedAt        nullTime            `bson:"createdAt"`
	UpdatedAt        nullTime            `bson:"updatedAt"`
}

func (d *applicationDoc) toDomain() domain.Application {
	app := domain.Application{
		ID:               d.ID.Hex(),
		CurrentStatus:    string(d.CurrentStatus),
		MovedToRecruiter: d.MovedToRecruiter,
		Notes:            string(d.Notes),
		AppliedAt:        d.AppliedAt.Value,
		CreatedAt:        d.CreatedAt.Value,
		UpdatedAt:        d.UpdatedAt.Value,
	}
	if d.CandidateID != nil {
		app.CandidateID = d.CandidateID.Hex()
	}
	if d.JobID != nil {
		app.JobID = d.JobID.Hex()
	}
	for _, qa := range d.InitialQuestions {
		q := domain.QuestionAnswer{
			Question:        string(qa.Question),
			CandidateAnswer: qa.CandidateAnswer,
			ExpectedAnswer:  qa.ExpectedAnswer,
		}
		if qa.ID != nil {
			q.ID = qa.ID.Hex()
		}
		app.InitialQuestions = append(app.InitialQuestions, q)
	}
	for _, st := range d.ScreeningStages {
		stage := domain.ScreeningStage{
			Name:        string(st.Name),
			Order:       st.Order,
			IsCompleted: st.IsCompleted,
		}
		if st.ID != nil {
			stage.ID = st.ID.Hex()
		}
		if st.Timestamps != nil {
			ts := &domain.StageTimestamps{
				CreatedAt: st.Timestamps.CreatedAt.Value,
				UpdatedAt: st.Timestamps.UpdatedAt.Value,
			}
			if st.Timestamps.ID != nil {
				ts.ID = st.Timestamps.ID.Hex()
			}
			stage.Timestamps = ts
		}
		app.ScreeningStages = append(app.ScreeningStages, stage)
	}
	for _, rs := range d.RecruiterStages {
		app.RecruiterStages = append(app.RecruiterStages, map[string]any(rs))
	}
	for _, doc := range d.Documents {
		app.Documents = append(app.Documents, map[string]any(doc))
	}
	return app
}

// ListByJob returns every application with status "Applied" for the job,
// along with the total count. The ranking pipeline needs the full pool to
// rank everyone before paginating, so there is no skip/limit here.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Application, int64, error) {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, 0, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	query := bson.M{"jobId": oid, "currentStatus": statusApplied}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications for job %s: %w", jobID, err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("find applications for job %s: %w", jobID, err)
	}
	defer cursor.Close(ctx)

	var apps []domain.Application
	for cursor.Next(ctx) {
		var doc applicationDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping undecodable application document", zap.Error(err))
			continue
		}
		apps = append(apps, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("find applications for job %s: %w", jobID, err)
	}
	return apps, total, nil
}
