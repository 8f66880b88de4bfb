package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/generation"
)

var errFakeNotFound = errors.New("entity not found")

// fakeProgressStore records the order of checkpoint writes so tests can
// assert the 0/50/100 sequencing.
type fakeProgressStore struct {
	mu          sync.Mutex
	calls       []string
	completeRef uuid.UUID
	updateErr   error
	completeErr error
	failErr     error
}

func (s *fakeProgressStore) UpdateProgress(_ context.Context, _ uuid.UUID, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("progress:%d", progress))
	return s.updateErr
}

func (s *fakeProgressStore) Complete(_ context.Context, _ uuid.UUID, resultRef uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "complete")
	s.completeRef = resultRef
	return s.completeErr
}

func (s *fakeProgressStore) Fail(_ context.Context, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "fail")
	return s.failErr
}

func (s *fakeProgressStore) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// fakeInputSource serves gather lookups from in-memory maps.
type fakeInputSource struct {
	projects  map[uuid.UUID]*domain.Project
	documents map[uuid.UUID]*domain.Document
	codes     map[uuid.UUID]*domain.SourceCode
	templates map[uuid.UUID]*domain.Template
	estimates []*domain.WorkEstimate
}

func newFakeInputSource() *fakeInputSource {
	return &fakeInputSource{
		projects:  make(map[uuid.UUID]*domain.Project),
		documents: make(map[uuid.UUID]*domain.Document),
		codes:     make(map[uuid.UUID]*domain.SourceCode),
		templates: make(map[uuid.UUID]*domain.Template),
	}
}

func (s *fakeInputSource) GetProject(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, errFakeNotFound
}

func (s *fakeInputSource) GetDocument(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	if d, ok := s.documents[id]; ok {
		return d, nil
	}
	return nil, errFakeNotFound
}

func (s *fakeInputSource) GetSourceCode(_ context.Context, id uuid.UUID) (*domain.SourceCode, error) {
	if c, ok := s.codes[id]; ok {
		return c, nil
	}
	return nil, errFakeNotFound
}

func (s *fakeInputSource) GetTemplate(_ context.Context, id uuid.UUID) (*domain.Template, error) {
	if tpl, ok := s.templates[id]; ok {
		return tpl, nil
	}
	return nil, errFakeNotFound
}

func (s *fakeInputSource) ProjectDocuments(_ context.Context, projectID uuid.UUID, _ int) ([]*domain.Document, error) {
	var docs []*domain.Document
	for _, d := range s.documents {
		if d.ProjectID == projectID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (s *fakeInputSource) ProjectSourceCodes(_ context.Context, projectID uuid.UUID, _ int) ([]*domain.SourceCode, error) {
	var codes []*domain.SourceCode
	for _, c := range s.codes {
		if c.ProjectID == projectID {
			codes = append(codes, c)
		}
	}
	return codes, nil
}

func (s *fakeInputSource) PastEstimates(_ context.Context, _ int) ([]*domain.WorkEstimate, error) {
	return s.estimates, nil
}

// fakeArtifactWriter records the single write a work unit performs.
type fakeArtifactWriter struct {
	mu        sync.Mutex
	kind      domain.TaskKind
	projectID uuid.UUID
	content   ArtifactContent
	writes    int
	writeErr  error
	resultRef uuid.UUID
}

func (w *fakeArtifactWriter) Write(_ context.Context, kind domain.TaskKind, projectID uuid.UUID, content ArtifactContent) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	w.kind = kind
	w.projectID = projectID
	w.content = content
	if w.writeErr != nil {
		return uuid.Nil, w.writeErr
	}
	if w.resultRef == uuid.Nil {
		w.resultRef = uuid.New()
	}
	return w.resultRef, nil
}

func staticGenerator(output string) generation.Generator {
	return generation.GeneratorFunc(func(_ context.Context, _, _ string) (string, error) {
		return output, nil
	})
}

func failingGenerator() generation.Generator {
	return generation.GeneratorFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", generation.ErrGenerationFailed
	})
}

func mustTask(t *testing.T, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) *domain.GenerationTask {
	t.Helper()
	task, err := domain.NewGenerationTask(kind, parentRef, params)
	require.NoError(t, err)
	return task
}

func TestGenerationWorkUnit_DocumentSuccess(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{}

	snapshot := mustTask(t, domain.TaskKindDocument, project.ID, domain.TaskParams{DocumentType: "requirements"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, staticGenerator("generated requirements"), testLogger())
	require.NoError(t, err)

	require.NoError(t, unit.Execute(context.Background()))

	assert.Equal(t, []string{"progress:50", "complete"}, progress.recorded())
	assert.Equal(t, writer.resultRef, progress.completeRef)
	assert.Equal(t, domain.TaskKindDocument, writer.kind)
	assert.Equal(t, project.ID, writer.projectID)
	assert.Equal(t, "generated requirements", writer.content.Body)
	assert.Equal(t, "requirements", writer.content.DocumentType)
}

func TestGenerationWorkUnit_ProviderFailureFallsBack(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{}

	snapshot := mustTask(t, domain.TaskKindDocument, project.ID, domain.TaskParams{DocumentType: "design"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, failingGenerator(), testLogger())
	require.NoError(t, err)

	require.NoError(t, unit.Execute(context.Background()))

	assert.Equal(t, []string{"progress:50", "complete"}, progress.recorded(),
		"a provider failure must still complete the task")
	assert.Equal(t, fallbackDocumentBody, writer.content.Body)
}

func TestGenerationWorkUnit_ArtifactWriteFailureFailsTask(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{writeErr: errors.New("insert failed")}

	snapshot := mustTask(t, domain.TaskKindDocument, project.ID, domain.TaskParams{DocumentType: "requirements"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, staticGenerator("content"), testLogger())
	require.NoError(t, err)

	err = unit.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"progress:50", "fail"}, progress.recorded())
	assert.Equal(t, uuid.Nil, progress.completeRef, "no result reference may be attached to a failed task")
	assert.Equal(t, 1, writer.writes, "the artifact write is attempted at most once")
}

func TestGenerationWorkUnit_GatherFailureFailsTask(t *testing.T) {
	t.Parallel()

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{}

	// Empty input source: the parent project does not exist.
	snapshot := mustTask(t, domain.TaskKindDocument, uuid.New(), domain.TaskParams{DocumentType: "requirements"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, newFakeInputSource(), writer, staticGenerator("content"), testLogger())
	require.NoError(t, err)

	err = unit.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"fail"}, progress.recorded(),
		"no checkpoint may be flushed before input gathering succeeds")
	assert.Zero(t, writer.writes)
}

func TestGenerationWorkUnit_CheckpointFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	progress := &fakeProgressStore{updateErr: errors.New("connection reset")}
	writer := &fakeArtifactWriter{}

	snapshot := mustTask(t, domain.TaskKindDocument, project.ID, domain.TaskParams{DocumentType: "requirements"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, staticGenerator("content"), testLogger())
	require.NoError(t, err)

	require.NoError(t, unit.Execute(context.Background()))
	assert.Equal(t, []string{"progress:50", "complete"}, progress.recorded())
}

func TestGenerationWorkUnit_SourceCode(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	projectID := uuid.New()
	parent, err := domain.NewDocument(projectID, "design", "system design content")
	require.NoError(t, err)
	inputs.documents[parent.ID] = parent

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{}

	snapshot := mustTask(t, domain.TaskKindSourceCode, parent.ID, domain.TaskParams{Language: "Python"})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, staticGenerator("print('hello')"), testLogger())
	require.NoError(t, err)

	require.NoError(t, unit.Execute(context.Background()))

	assert.Equal(t, projectID, writer.projectID, "the artifact attaches to the parent document's project")
	assert.Equal(t, "generated_code.py", writer.content.FileName)
	assert.Equal(t, "Python", writer.content.Language)
	assert.Equal(t, "print('hello')", writer.content.Body)
}

func TestGenerationWorkUnit_CheckTypes(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	doc, err := domain.NewDocument(project.ID, "requirements", "doc content")
	require.NoError(t, err)
	inputs.documents[doc.ID] = doc

	code, err := domain.NewSourceCode(project.ID, "generated_code.go", "Go", "package main")
	require.NoError(t, err)
	inputs.codes[code.ID] = code

	tests := []struct {
		name      string
		kind      domain.TaskKind
		params    domain.TaskParams
		checkType domain.QualityCheckType
	}{
		{
			name:      "consistency check",
			kind:      domain.TaskKindConsistencyCheck,
			params:    domain.TaskParams{DocumentIDs: []uuid.UUID{doc.ID}},
			checkType: domain.QualityCheckTypeConsistency,
		},
		{
			name:      "quality check over documents",
			kind:      domain.TaskKindQualityCheck,
			params:    domain.TaskParams{DocumentIDs: []uuid.UUID{doc.ID}},
			checkType: domain.QualityCheckTypeDocument,
		},
		{
			name:      "quality check over source code",
			kind:      domain.TaskKindQualityCheck,
			params:    domain.TaskParams{SourceCodeIDs: []uuid.UUID{code.ID}},
			checkType: domain.QualityCheckTypeSourceCode,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			progress := &fakeProgressStore{}
			writer := &fakeArtifactWriter{}

			snapshot := mustTask(t, tc.kind, project.ID, tc.params)
			unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, staticGenerator(`{"score":90}`), testLogger())
			require.NoError(t, err)

			require.NoError(t, unit.Execute(context.Background()))
			assert.Equal(t, tc.checkType, writer.content.CheckType)
		})
	}
}

func TestGenerationWorkUnit_ProposalTwoStep(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	templateID := uuid.New()
	inputs.templates[templateID] = &domain.Template{
		ID:      templateID,
		Name:    "standard",
		Content: "Proposal for our client.\n{{key_info}}\nRegards.",
	}

	t.Run("both steps succeed", func(t *testing.T) {
		t.Parallel()

		calls := 0
		gen := generation.GeneratorFunc(func(_ context.Context, _, user string) (string, error) {
			calls++
			if calls == 1 {
				return "extracted key info", nil
			}
			assert.Contains(t, user, "extracted key info", "the optimization step receives the filled draft")
			return "optimized proposal", nil
		})

		progress := &fakeProgressStore{}
		writer := &fakeArtifactWriter{}
		snapshot := mustTask(t, domain.TaskKindProposal, project.ID, domain.TaskParams{TemplateID: templateID})
		unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, gen, testLogger())
		require.NoError(t, err)

		require.NoError(t, unit.Execute(context.Background()))
		assert.Equal(t, 2, calls)
		assert.Equal(t, "optimized proposal", writer.content.Body)
	})

	t.Run("key info extraction fails", func(t *testing.T) {
		t.Parallel()

		calls := 0
		gen := generation.GeneratorFunc(func(_ context.Context, _, _ string) (string, error) {
			calls++
			if calls == 1 {
				return "", generation.ErrGenerationFailed
			}
			return "optimized proposal", nil
		})

		progress := &fakeProgressStore{}
		writer := &fakeArtifactWriter{}
		snapshot := mustTask(t, domain.TaskKindProposal, project.ID, domain.TaskParams{TemplateID: templateID})
		unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, gen, testLogger())
		require.NoError(t, err)

		require.NoError(t, unit.Execute(context.Background()))
		assert.Equal(t, "optimized proposal", writer.content.Body)
	})

	t.Run("optimization fails", func(t *testing.T) {
		t.Parallel()

		calls := 0
		gen := generation.GeneratorFunc(func(_ context.Context, _, _ string) (string, error) {
			calls++
			if calls == 1 {
				return "extracted key info", nil
			}
			return "", generation.ErrGenerationFailed
		})

		progress := &fakeProgressStore{}
		writer := &fakeArtifactWriter{}
		snapshot := mustTask(t, domain.TaskKindProposal, project.ID, domain.TaskParams{TemplateID: templateID})
		unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, gen, testLogger())
		require.NoError(t, err)

		require.NoError(t, unit.Execute(context.Background()))
		assert.Equal(t, "Proposal for our client.\nextracted key info\nRegards.", writer.content.Body,
			"the unoptimized draft survives an optimization failure")
	})
}

func TestGenerationWorkUnit_WorkEstimateMetrics(t *testing.T) {
	t.Parallel()

	inputs := newFakeInputSource()
	project, err := domain.NewProject(uuid.New(), "Atelier CRM")
	require.NoError(t, err)
	inputs.projects[project.ID] = project

	doc, err := domain.NewDocument(project.ID, "requirements", "twelve chars")
	require.NoError(t, err)
	inputs.documents[doc.ID] = doc

	past, err := domain.NewWorkEstimate(project.ID, `{"total_hours":80}`)
	require.NoError(t, err)
	inputs.estimates = []*domain.WorkEstimate{past}

	var captured string
	gen := generation.GeneratorFunc(func(_ context.Context, _, user string) (string, error) {
		captured = user
		return `{"total_hours":120}`, nil
	})

	progress := &fakeProgressStore{}
	writer := &fakeArtifactWriter{}
	snapshot := mustTask(t, domain.TaskKindWorkEstimate, project.ID, domain.TaskParams{})
	unit, err := NewGenerationWorkUnit(snapshot, progress, inputs, writer, gen, testLogger())
	require.NoError(t, err)

	require.NoError(t, unit.Execute(context.Background()))

	assert.Contains(t, captured, "Documents: 1")
	assert.Contains(t, captured, "Historic average estimate: 80 hours")
	assert.Equal(t, `{"total_hours":120}`, writer.content.Body)
}

func TestFileExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		language string
		ext      string
	}{
		{"Python", "py"},
		{"javascript", "js"},
		{"TypeScript", "ts"},
		{"Java", "java"},
		{"Go", "go"},
		{"COBOL", "txt"},
		{"", "txt"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.ext, fileExtension(tc.language), "language %q", tc.language)
	}
}

func TestAverageEstimateHours(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	estimate := func(payload string) *domain.WorkEstimate {
		return &domain.WorkEstimate{ID: uuid.New(), ProjectID: projectID, Estimate: payload}
	}

	t.Run("averages parseable payloads", func(t *testing.T) {
		t.Parallel()
		avg := averageEstimateHours([]*domain.WorkEstimate{
			estimate(`{"total_hours":100}`),
			estimate(`{"total_hours":50}`),
			estimate(`not json`),
		})
		assert.InDelta(t, 75.0, avg, 0.001)
	})

	t.Run("no usable history", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, averageEstimateHours(nil))
		assert.Zero(t, averageEstimateHours([]*domain.WorkEstimate{estimate(`{}`)}))
	})
}
