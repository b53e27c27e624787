package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// mockConversionRepo is a mock implementation of domain.ConversionRepository
type mockConversionRepo struct {
	factors   map[string]float64
	findCalls int
}

func newMockConversionRepo() *mockConversionRepo {
	return &mockConversionRepo{factors: make(map[string]float64)}
}

func (m *mockConversionRepo) key(from, to string, scope domain.Scope) string {
	return from + "|" + to + "|" + scope.Key()
}

func (m *mockConversionRepo) add(from, to string, scope domain.Scope, factor float64) {
	m.factors[m.key(from, to, scope)] = factor
}

func (m *mockConversionRepo) FindFactor(ctx context.Context, fromUnit, toUnit string, scope domain.Scope) (*domain.UnitConversionFactor, error) {
	m.findCalls++
	if f, ok := m.factors[m.key(fromUnit, toUnit, scope)]; ok {
		return &domain.UnitConversionFactor{
			FromUnit:     fromUnit,
			ToUnit:       toUnit,
			Factor:       f,
			IngredientID: scope.IngredientID,
			Category:     scope.Category,
		}, nil
	}
	return nil, nil
}

func (m *mockConversionRepo) Seed(ctx context.Context, factors []domain.UnitConversionFactor) error {
	for _, f := range factors {
		scope := domain.Scope{IngredientID: f.IngredientID, Category: f.Category}
		m.factors[m.key(f.FromUnit, f.ToUnit, scope)] = f.Factor
	}
	return nil
}

// seedGeneralUnits loads the handful of general conversions most tests need.
func (m *mockConversionRepo) seedGeneralUnits() {
	m.add("g", "kg", domain.GeneralScope, 0.001)
	m.add("kg", "g", domain.GeneralScope, 1000)
	m.add("ml", "l", domain.GeneralScope, 0.001)
	m.add("l", "ml", domain.GeneralScope, 1000)
	m.add("cup", "ml", domain.GeneralScope, 236.588)
	m.add("ml", "cup", domain.GeneralScope, 1.0/236.588)
	m.add("tbsp", "ml", domain.GeneralScope, 14.7868)
	m.add("oz", "g", domain.GeneralScope, 28.3495)
}

// mockDensityRepo is a mock implementation of domain.DensityRepository
type mockDensityRepo struct {
	densities map[string]float64
}

func newMockDensityRepo() *mockDensityRepo {
	return &mockDensityRepo{densities: make(map[string]float64)}
}

func (m *mockDensityRepo) add(scope domain.Scope, state string, density float64) {
	m.densities[scope.Key()+"|"+state] = density
}

func (m *mockDensityRepo) FindDensity(ctx context.Context, scope domain.Scope, state string) (*domain.DensityFact, error) {
	if d, ok := m.densities[scope.Key()+"|"+state]; ok {
		return &domain.DensityFact{
			IngredientID: scope.IngredientID,
			Category:     scope.Category,
			State:        state,
			GramsPerML:   d,
			Confidence:   0.9,
		}, nil
	}
	return nil, nil
}

func (m *mockDensityRepo) Seed(ctx context.Context, facts []domain.DensityFact) error {
	for _, f := range facts {
		scope := domain.Scope{IngredientID: f.IngredientID, Category: f.Category}
		m.densities[scope.Key()+"|"+f.State] = f.GramsPerML
	}
	return nil
}

// mockOverrideRepo is a mock implementation of domain.OverrideRepository
type mockOverrideRepo struct {
	rules []domain.ContextOverrideRule
}

func (m *mockOverrideRepo) FindActive(ctx context.Context, ingredientID uuid.UUID, ruleContext string) ([]domain.ContextOverrideRule, error) {
	var out []domain.ContextOverrideRule
	for _, r := range m.rules {
		if r.Active && r.IngredientID == ingredientID && r.Context == ruleContext {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockOverrideRepo) Create(ctx context.Context, rule *domain.ContextOverrideRule) error {
	m.rules = append(m.rules, *rule)
	return nil
}

// mockIngredientRepo is a mock implementation of domain.IngredientRepository
type mockIngredientRepo struct {
	ingredients map[uuid.UUID]*domain.Ingredient
	facts       map[uuid.UUID]*domain.NutritionFact
	createErr   error
	created     int
}

func newMockIngredientRepo() *mockIngredientRepo {
	return &mockIngredientRepo{
		ingredients: make(map[uuid.UUID]*domain.Ingredient),
		facts:       make(map[uuid.UUID]*domain.NutritionFact),
	}
}

func (m *mockIngredientRepo) addIngredient(ing *domain.Ingredient, fact *domain.NutritionFact) {
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	m.ingredients[ing.ID] = ing
	if fact != nil {
		fact.IngredientID = ing.ID
		m.facts[ing.ID] = fact
	}
}

func (m *mockIngredientRepo) CreateWithFact(ctx context.Context, ing *domain.Ingredient, fact *domain.NutritionFact) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created++
	m.addIngredient(ing, fact)
	return nil
}

func (m *mockIngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error) {
	if ing, ok := m.ingredients[id]; ok {
		return ing, nil
	}
	return nil, domain.ErrIngredientNotFound
}

func (m *mockIngredientRepo) FindByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	for _, ing := range m.ingredients {
		if ing.Name == name {
			return ing, nil
		}
	}
	return nil, nil
}

func (m *mockIngredientRepo) FindByBarcode(ctx context.Context, barcode string) (*domain.Ingredient, error) {
	if barcode == "" {
		return nil, nil
	}
	for _, ing := range m.ingredients {
		if ing.Barcode == barcode {
			return ing, nil
		}
	}
	return nil, nil
}

func (m *mockIngredientRepo) GetFact(ctx context.Context, ingredientID uuid.UUID) (*domain.NutritionFact, error) {
	if fact, ok := m.facts[ingredientID]; ok {
		return fact, nil
	}
	return nil, domain.ErrNutritionNotFound
}

func (m *mockIngredientRepo) UpdateDataQuality(ctx context.Context, id uuid.UUID, quality float64) error {
	if ing, ok := m.ingredients[id]; ok {
		ing.DataQuality = quality
		return nil
	}
	return domain.ErrIngredientNotFound
}

// mockQueueRepo is a mock implementation of domain.QueueRepository
type mockQueueRepo struct {
	items []*domain.DiscoveryQueueItem
}

func (m *mockQueueRepo) find(id uuid.UUID) *domain.DiscoveryQueueItem {
	for _, it := range m.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (m *mockQueueRepo) Enqueue(ctx context.Context, item *domain.DiscoveryQueueItem) (bool, error) {
	for _, it := range m.items {
		if it.Name == item.Name && it.Status == domain.QueueStatusPending {
			return false, nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	m.items = append(m.items, item)
	return true, nil
}

func (m *mockQueueRepo) NextPending(ctx context.Context, limit int) ([]domain.DiscoveryQueueItem, error) {
	var pending []*domain.DiscoveryQueueItem
	for _, it := range m.items {
		if it.Status == domain.QueueStatusPending {
			pending = append(pending, it)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Priority < pending[j].Priority
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	out := make([]domain.DiscoveryQueueItem, 0, len(pending))
	for _, it := range pending {
		out = append(out, *it)
	}
	return out, nil
}

func (m *mockQueueRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	it := m.find(id)
	it.Status = domain.QueueStatusProcessing
	it.Attempts++
	now := time.Now()
	it.LastAttempt = &now
	return nil
}

func (m *mockQueueRepo) MarkCompleted(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	it := m.find(id)
	it.Status = domain.QueueStatusCompleted
	it.Metadata = metadata
	return nil
}

func (m *mockQueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	it := m.find(id)
	it.Status = domain.QueueStatusFailed
	it.Metadata = metadata
	return nil
}

func (m *mockQueueRepo) RequeueFailed(ctx context.Context, limit int) (int, error) {
	n := 0
	for _, it := range m.items {
		if n >= limit {
			break
		}
		if it.Status == domain.QueueStatusFailed {
			it.Status = domain.QueueStatusPending
			n++
		}
	}
	return n, nil
}

// mockJobRepo is a mock implementation of domain.JobRepository
type mockJobRepo struct {
	jobs []*domain.EtlJob
}

func (m *mockJobRepo) Start(ctx context.Context, jobType string) (*domain.EtlJob, error) {
	job := &domain.EtlJob{
		ID:        uuid.New(),
		JobType:   jobType,
		Status:    domain.JobStatusRunning,
		StartedAt: time.Now(),
	}
	m.jobs = append(m.jobs, job)
	return job, nil
}

func (m *mockJobRepo) Complete(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	for _, j := range m.jobs {
		if j.ID == id {
			j.Status = domain.JobStatusCompleted
			j.Metadata = metadata
			now := time.Now()
			j.CompletedAt = &now
		}
	}
	return nil
}

func (m *mockJobRepo) Fail(ctx context.Context, id uuid.UUID, jobErr error) error {
	for _, j := range m.jobs {
		if j.ID == id {
			j.Status = domain.JobStatusFailed
			j.Error = jobErr.Error()
			now := time.Now()
			j.CompletedAt = &now
		}
	}
	return nil
}

// mockAdapter is a mock implementation of domain.SourceAdapter
type mockAdapter struct {
	name        string
	records     []domain.ExternalRecord
	searchErr   error
	normalized  map[string]*domain.NormalizedFood
	searchCalls int
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Search(ctx context.Context, query string, limit int) ([]domain.ExternalRecord, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.records) == 0 {
		return nil, domain.ErrNoResults
	}
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockAdapter) FetchByID(ctx context.Context, id string) (*domain.ExternalRecord, error) {
	for i := range m.records {
		if m.records[i].ExternalID == id {
			return &m.records[i], nil
		}
	}
	return nil, nil
}

func (m *mockAdapter) Normalize(rec *domain.ExternalRecord) (*domain.NormalizedFood, error) {
	if food, ok := m.normalized[rec.ExternalID]; ok {
		return food, nil
	}
	return &domain.NormalizedFood{
		ExternalID: rec.ExternalID,
		Source:     m.name,
		Name:       rec.Description,
		Category:   rec.Category,
		Nutrients:  domain.Nutrients{},
	}, nil
}
