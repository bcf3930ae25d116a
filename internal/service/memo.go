package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memoapi/internal/dto"
	"memoapi/internal/model"
	"memoapi/internal/repository"
)

var tracer = otel.Tracer("memoapi/service")

// MemoService defines the use cases for managing memos.
type MemoService interface {
	// GetAll validates the pagination parameters, applies defaults and returns one page of memos.
	GetAll(ctx context.Context, params dto.PaginationParams) (*dto.PaginatedResponse[dto.MemoResponse], error)

	// GetByID returns a single memo.
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MemoResponse, error)

	// Create validates and stores a new memo.
	Create(ctx context.Context, req dto.CreateMemoRequest) (*dto.MemoResponse, error)

	// Update replaces every mutable field of a memo.
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMemoRequest) (*dto.MemoResponse, error)

	// Patch overwrites only the fields present in req.
	// A nil description means "no change"; an empty one clears the description.
	Patch(ctx context.Context, id uuid.UUID, req dto.PatchMemoRequest) (*dto.MemoResponse, error)

	// Delete removes a memo permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// ToggleComplete flips the completed flag and leaves everything else as stored.
	ToggleComplete(ctx context.Context, id uuid.UUID) (*dto.MemoResponse, error)
}

// memoService is a concrete implementation of MemoService. It holds no state
// besides the repository, so one instance may serve any number of goroutines.
type memoService struct {
	repo repository.MemoRepository
}

// NewMemoService constructs a new MemoService.
func NewMemoService(repo repository.MemoRepository) MemoService {
	return &memoService{repo: repo}
}

func (s *memoService) GetAll(ctx context.Context, params dto.PaginationParams) (_ *dto.PaginatedResponse[dto.MemoResponse], err error) {
	ctx, span := tracer.Start(ctx, "MemoService.GetAll")
	defer func() { endSpan(span, err) }()

	if err := validateStruct(params); err != nil {
		return nil, err
	}

	q := repository.ListQuery{
		Limit:     valueOr(params.Limit, dto.DefaultLimit),
		Offset:    valueOr(params.Offset, dto.DefaultOffset),
		Completed: params.Completed,
		SortBy:    repository.ParseSortField(valueOr(params.SortBy, dto.DefaultSortBy)),
		Order:     repository.ParseSortOrder(valueOr(params.Order, dto.DefaultOrder)),
	}
	span.SetAttributes(
		attribute.Int("memo.limit", q.Limit),
		attribute.Int("memo.offset", q.Offset),
		attribute.String("memo.sort_by", string(q.SortBy)),
		attribute.String("memo.order", string(q.Order)),
	)

	res, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, storageError(err)
	}

	data := make([]dto.MemoResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, dto.FromModel(&res.Items[i]))
	}
	return &dto.PaginatedResponse[dto.MemoResponse]{
		Data:   data,
		Total:  res.Total,
		Limit:  q.Limit,
		Offset: q.Offset,
	}, nil
}

func (s *memoService) GetByID(ctx context.Context, id uuid.UUID) (_ *dto.MemoResponse, err error) {
	ctx, span := tracer.Start(ctx, "MemoService.GetByID", withMemoID(id))
	defer func() { endSpan(span, err) }()

	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return respond(m), nil
}

func (s *memoService) Create(ctx context.Context, req dto.CreateMemoRequest) (_ *dto.MemoResponse, err error) {
	ctx, span := tracer.Start(ctx, "MemoService.Create")
	defer func() { endSpan(span, err) }()

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	m, err := s.repo.Create(ctx, repository.CreateMemo{
		Title:       req.Title,
		Description: normalizeDescription(req.Description),
		DateTo:      req.DateTo,
	})
	if err != nil {
		return nil, storageError(err)
	}
	span.SetAttributes(attribute.String("memo.id", m.ID.String()))
	return respond(m), nil
}

func (s *memoService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMemoRequest) (_ *dto.MemoResponse, err error) {
	ctx, span := tracer.Start(ctx, "MemoService.Update", withMemoID(id))
	defer func() { endSpan(span, err) }()

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return s.replace(ctx, id, repository.UpdateMemo{
		Title:       req.Title,
		Description: normalizeDescription(req.Description),
		DateTo:      req.DateTo,
		Completed:   *req.Completed,
	})
}

func (s *memoService) Patch(ctx context.Context, id uuid.UUID, req dto.PatchMemoRequest) (_ *dto.MemoResponse, err error) {
	ctx, span := tracer.Start(ctx, "MemoService.Patch", withMemoID(id))
	defer func() { endSpan(span, err) }()

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := repository.UpdateMemo{
		Title:       valueOr(req.Title, existing.Title),
		Description: existing.Description,
		DateTo:      valueOr(req.DateTo, existing.DateTo),
		Completed:   valueOr(req.Completed, existing.Completed),
	}
	if req.Description != nil {
		merged.Description = normalizeDescription(req.Description)
	}

	return s.replace(ctx, id, merged)
}

func (s *memoService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "MemoService.Delete", withMemoID(id))
	defer func() { endSpan(span, err) }()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if !deleted {
		return notFound(id)
	}
	return nil
}

func (s *memoService) ToggleComplete(ctx context.Context, id uuid.UUID) (_ *dto.MemoResponse, err error) {
	ctx, span := tracer.Start(ctx, "MemoService.ToggleComplete", withMemoID(id))
	defer func() { endSpan(span, err) }()

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("memo.completed", !existing.Completed))
	return s.replace(ctx, id, repository.UpdateMemo{
		Title:       existing.Title,
		Description: existing.Description,
		DateTo:      existing.DateTo,
		Completed:   !existing.Completed,
	})
}

// find loads a memo and turns absence into a KindNotFound error.
func (s *memoService) find(ctx context.Context, id uuid.UUID) (*model.Memo, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if m == nil {
		return nil, notFound(id)
	}
	return m, nil
}

// replace performs the full-row update shared by Update, Patch and ToggleComplete.
// The memo may vanish between a read and this write; that is still NotFound.
func (s *memoService) replace(ctx context.Context, id uuid.UUID, in repository.UpdateMemo) (*dto.MemoResponse, error) {
	m, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, storageError(err)
	}
	return respond(m), nil
}

func respond(m *model.Memo) *dto.MemoResponse {
	r := dto.FromModel(m)
	return &r
}

// normalizeDescription stores an empty description as absent.
func normalizeDescription(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	v := *d
	return &v
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func withMemoID(id uuid.UUID) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("memo.id", id.String()))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", KindOf(err).String()))
		if KindOf(err) == KindStorage || KindOf(err) == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
