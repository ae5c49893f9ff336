package repository

import (
	"errors"
	"fmt"
	"time"

	"learnhub_portal/internal/model"
	"learnhub_portal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
)

// ErrMalformedRecord marks a stored document that does not decode into
// its domain type.
var ErrMalformedRecord = errors.New("malformed record")

var recordValidator = validator.New()

type userRecord struct {
	ID        string     `mapstructure:"id" validate:"required"`
	Name      string     `mapstructure:"name"`
	Email     string     `mapstructure:"email"`
	Role      string     `mapstructure:"role" validate:"required"`
	Status    string     `mapstructure:"status" validate:"required"`
	AvatarURL string     `mapstructure:"avatarUrl"`
	LastLogin *time.Time `mapstructure:"lastLogin"`
}

func (r userRecord) toModel() (model.User, error) {
	role, err := model.ParseUserRole(r.Role)
	if err != nil {
		return model.User{}, err
	}
	status, err := model.ParseUserStatus(r.Status)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      role,
		Status:    status,
		AvatarURL: r.AvatarURL,
		LastLogin: r.LastLogin,
	}, nil
}

type lessonRecord struct {
	ID              string `mapstructure:"id" validate:"required"`
	Title           string `mapstructure:"title"`
	Type            string `mapstructure:"type" validate:"required"`
	DurationMinutes int    `mapstructure:"durationMinutes" validate:"gte=0"`
	Content         string `mapstructure:"content"`
}

type discountRecord struct {
	Type  string  `mapstructure:"type" validate:"required"`
	Value float64 `mapstructure:"value" validate:"gte=0"`
}

type courseRecord struct {
	ID           string          `mapstructure:"id" validate:"required"`
	Title        string          `mapstructure:"title"`
	Description  string          `mapstructure:"description"`
	Instructor   string          `mapstructure:"instructor"`
	ThumbnailURL string          `mapstructure:"thumbnailUrl"`
	Category     string          `mapstructure:"category"`
	Lessons      []lessonRecord  `mapstructure:"lessons" validate:"dive"`
	Price        float64         `mapstructure:"price" validate:"gte=0"`
	Discount     *discountRecord `mapstructure:"discount"`
	Status       string          `mapstructure:"status" validate:"required"`
}

func (r courseRecord) toModel() (model.Course, error) {
	status, err := model.ParseCourseStatus(r.Status)
	if err != nil {
		return model.Course{}, err
	}

	lessons := make([]model.Lesson, len(r.Lessons))
	for i, l := range r.Lessons {
		kind, err := model.ParseLessonKind(l.Type)
		if err != nil {
			return model.Course{}, fmt.Errorf("lesson %s: %w", l.ID, err)
		}
		lessons[i] = model.Lesson{
			ID:              l.ID,
			Title:           l.Title,
			Type:            kind,
			DurationMinutes: l.DurationMinutes,
			Content:         l.Content,
		}
	}

	var discount *model.Discount
	if r.Discount != nil {
		kind, err := model.ParseDiscountKind(r.Discount.Type)
		if err != nil {
			return model.Course{}, err
		}
		discount = &model.Discount{Type: kind, Value: r.Discount.Value}
	}

	return model.Course{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Instructor:   r.Instructor,
		ThumbnailURL: r.ThumbnailURL,
		Category:     r.Category,
		Lessons:      lessons,
		Price:        r.Price,
		Discount:     discount,
		Status:       status,
	}, nil
}

type enrollmentRecord struct {
	ID               string   `mapstructure:"id"`
	CourseID         string   `mapstructure:"courseId" validate:"required"`
	Progress         int      `mapstructure:"progress" validate:"gte=0,lte=100"`
	CompletedLessons []string `mapstructure:"completedLessons"`
}

// decodeRecord decodes doc into out and validates its shape. Every
// failure wraps ErrMalformedRecord.
func decodeRecord(doc Document, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(doc)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if err := recordValidator.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return nil
}

func decodeUser(doc Document) (model.User, error) {
	var r userRecord
	if err := decodeRecord(doc, &r); err != nil {
		return model.User{}, err
	}
	u, err := r.toModel()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return u, nil
}

func decodeCourse(doc Document) (model.Course, error) {
	var r courseRecord
	if err := decodeRecord(doc, &r); err != nil {
		return model.Course{}, err
	}
	c, err := r.toModel()
	if err != nil {
		return model.Course{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return c, nil
}

func decodeEnrollment(doc Document) (enrollmentRecord, error) {
	var r enrollmentRecord
	err := decodeRecord(doc, &r)
	return r, err
}

// decodeAll decodes every document of a list fetch. Malformed documents
// are logged and left out.
func decodeAll[T any](collection string, docs []Document, decode func(Document) (T, error)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decode(doc)
		if err != nil {
			logger.Log.Warn("Skipping malformed record",
				zap.String("collection", collection),
				zap.String("id", doc.ID()),
				zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}
