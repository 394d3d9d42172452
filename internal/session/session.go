package session

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"astrocompat/internal/chart"
	"astrocompat/internal/components/assert"
	"astrocompat/internal/components/chrono"
	"astrocompat/internal/components/telemetry"
	"astrocompat/internal/scrapers/cafeastrology"

	"golang.org/x/sync/errgroup"
)

const (
	report_session_add_person    = "add-person"
	report_session_compatibility = "compatibility"
	report_session_people        = "people"
)

// ChartService is the remote chart service a session talks to.
type ChartService interface {
	SubmitChart(ctx context.Context, req cafeastrology.ChartRequest) (cafeastrology.UserId, string, error)
	Scores(ctx context.Context, a, b cafeastrology.UserId) (chart.Score, string, error)
	ChartLink(id cafeastrology.UserId) string
}

// Reference is a chart every newly added person is compared against.
type Reference struct {
	Name string
	Id   cafeastrology.UserId
}

// DefaultReferences are the charts a session starts with.
var DefaultReferences = []Reference{
	{Name: "Ar", Id: "273725830"},
	{Name: "Da", Id: "273732925"},
	{Name: "Am", Id: "273000806"},
}

type Person struct {
	// Seq is 1-based, in order of addition.
	Seq    int
	UserId cafeastrology.UserId
	Record chart.Record
	// Row is Record projected onto the session columns.
	Row       []string
	Birth     time.Time
	TimeKnown bool
	Location  string
	AddedAt   time.Time
}

type Compatibility struct {
	Reference Reference
	Score     chart.Score
	Url       string
}

// Result is everything produced by adding one person.
type Result struct {
	Person    Person
	ChartLink string
	// Compatibility is ordered like the references present before the
	// person was added.
	Compatibility []Compatibility
}

type Options struct {
	References []Reference
	Columns    []string
	// MaxParallelLookups bounds concurrent compatibility lookups, 1 runs
	// them one at a time and <= 0 leaves them unbounded.
	MaxParallelLookups int
}

func DefaultOptions() Options {
	return Options{
		References:         slices.Clone(DefaultReferences),
		Columns:            slices.Clone(chart.DisplayColumns),
		MaxParallelLookups: 3,
	}
}

// Session is an append-only list of people and the references they are
// compared against.
type Session struct {
	svc   ChartService
	clock chrono.API
	tel   telemetry.API
	opts  Options

	// adding serializes AddPerson so sequence numbers and reference
	// snapshots stay consistent.
	adding     sync.Mutex
	mutex      sync.RWMutex
	results    []Result
	references []Reference
}

func New(svc ChartService, clock chrono.API, tel telemetry.API, opts Options) *Session {
	assert.NotNil(svc)
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.Columns == nil {
		opts.Columns = chart.DisplayColumns
	}

	return &Session{
		svc:        svc,
		clock:      clock,
		tel:        telemetry.NewScopedAPI("session", tel),
		opts:       opts,
		references: slices.Clone(opts.References),
	}
}

// AddPerson retrieves the chart of a new person, compares it against every
// existing reference and then appends the person to the session. The session
// is left untouched if any step fails.
func (s *Session) AddPerson(ctx context.Context, req cafeastrology.ChartRequest) (Result, error) {
	s.adding.Lock()
	defer s.adding.Unlock()

	err := req.Validate()
	if err != nil {
		return Result{}, err
	}

	id, doc, err := s.svc.SubmitChart(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("submit chart: %w", err)
	}

	includeHouses := req.IncludeHouses()
	record, err := chart.Extract(doc, includeHouses)
	if err != nil {
		s.tel.ReportBroken(report_session_add_person, fmt.Errorf("extract: %w", err), id)
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	record, err = chart.Enrich(record, includeHouses)
	if err != nil {
		s.tel.ReportBroken(report_session_add_person, fmt.Errorf("derive decans: %w", err), id)
		return Result{}, fmt.Errorf("derive decans: %w", err)
	}
	row, err := record.Project(s.opts.Columns)
	if err != nil {
		s.tel.ReportBroken(report_session_add_person, fmt.Errorf("project: %w", err), id)
		return Result{}, fmt.Errorf("project: %w", err)
	}

	references := s.References()
	compatibility, err := s.lookup(ctx, id, references)
	if err != nil {
		return Result{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	seq := len(s.results) + 1
	result := Result{
		Person: Person{
			Seq:       seq,
			UserId:    id,
			Record:    record,
			Row:       row,
			Birth:     req.Birth(),
			TimeKnown: req.TimeKnown,
			Location:  req.Location.Name,
			AddedAt:   s.clock.Now(),
		},
		ChartLink:     s.svc.ChartLink(id),
		Compatibility: compatibility,
	}
	s.results = append(s.results, result)
	s.references = append(s.references, Reference{
		Name: fmt.Sprintf("Person %d", seq),
		Id:   id,
	})
	s.tel.ReportCount(report_session_people, int64(len(s.results)))

	return result.clone(), nil
}

func (s *Session) lookup(ctx context.Context, id cafeastrology.UserId, references []Reference) ([]Compatibility, error) {
	out := make([]Compatibility, len(references))

	group, groupCtx := errgroup.WithContext(ctx)
	if s.opts.MaxParallelLookups > 0 {
		group.SetLimit(s.opts.MaxParallelLookups)
	}
	for i, ref := range references {
		group.Go(func() error {
			score, url, err := s.svc.Scores(groupCtx, id, ref.Id)
			if err != nil {
				s.tel.ReportBroken(report_session_compatibility, err, id, ref.Name)
				return fmt.Errorf("compatibility with %s: %w", ref.Name, err)
			}
			out[i] = Compatibility{
				Reference: ref,
				Score:     score,
				Url:       url,
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p Person) clone() Person {
	p.Record.Values = maps.Clone(p.Record.Values)
	p.Row = slices.Clone(p.Row)
	return p
}

func (r Result) clone() Result {
	r.Person = r.Person.clone()
	r.Compatibility = slices.Clone(r.Compatibility)
	return r
}

// People returns a copy of every person in order of addition.
func (s *Session) People() []Person {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]Person, len(s.results))
	for i, r := range s.results {
		out[i] = r.Person.clone()
	}
	return out
}

func (s *Session) References() []Reference {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return slices.Clone(s.references)
}

// Latest returns a copy of the result of the last added person, false if the
// session is empty.
func (s *Session) Latest() (Result, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if len(s.results) == 0 {
		return Result{}, false
	}
	return s.results[len(s.results)-1].clone(), true
}
