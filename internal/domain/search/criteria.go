package search

// Condition restricts the products of a search. Name identifies the condition
// inside a Criteria, adding a second condition with the same name replaces it.
type Condition interface {
	Name() string
}

// Facet requests an aggregation over the products of a search.
type Facet interface {
	Name() string
}

type Sorting interface {
	Name() string
}

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// NormalizeDirection maps anything but "DESC" (any case) to ascending.
func NormalizeDirection(direction string) string {
	if direction == SortDesc || direction == "desc" || direction == "Desc" {
		return SortDesc
	}
	return SortAsc
}

type namedSet[T interface{ Name() string }] struct {
	order []string
	items map[string]T
}

func (s *namedSet[T]) add(item T) {
	if s.items == nil {
		s.items = make(map[string]T)
	}
	name := item.Name()
	if _, ok := s.items[name]; !ok {
		s.order = append(s.order, name)
	}
	s.items[name] = item
}

func (s *namedSet[T]) get(name string) (T, bool) {
	item, ok := s.items[name]
	return item, ok
}

func (s *namedSet[T]) remove(name string) {
	if _, ok := s.items[name]; !ok {
		return
	}
	delete(s.items, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *namedSet[T]) all() []T {
	out := make([]T, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.items[name])
	}
	return out
}

func (s *namedSet[T]) clone() namedSet[T] {
	c := namedSet[T]{order: append([]string(nil), s.order...), items: make(map[string]T, len(s.items))}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

// Criteria describes a product search. Base conditions are always applied,
// conditions are the user selected filters which facets may ignore.
type Criteria struct {
	offset         int
	limit          int
	baseConditions namedSet[Condition]
	conditions     namedSet[Condition]
	facets         namedSet[Facet]
	sortings       namedSet[Sorting]
	fetchCount     bool
}

func NewCriteria() *Criteria {
	return &Criteria{limit: 0, fetchCount: true}
}

func (c *Criteria) Offset(offset int) *Criteria {
	if offset < 0 {
		offset = 0
	}
	c.offset = offset
	return c
}

// Limit sets the page size. 0 means no limit.
func (c *Criteria) Limit(limit int) *Criteria {
	if limit < 0 {
		limit = 0
	}
	c.limit = limit
	return c
}

func (c *Criteria) GetOffset() int { return c.offset }
func (c *Criteria) GetLimit() int  { return c.limit }

// SetFetchCount toggles the total count query.
func (c *Criteria) SetFetchCount(fetch bool) *Criteria {
	c.fetchCount = fetch
	return c
}

func (c *Criteria) FetchCount() bool { return c.fetchCount }

func (c *Criteria) AddBaseCondition(condition Condition) *Criteria {
	c.baseConditions.add(condition)
	return c
}

func (c *Criteria) AddCondition(condition Condition) *Criteria {
	c.conditions.add(condition)
	return c
}

func (c *Criteria) AddFacet(facet Facet) *Criteria {
	c.facets.add(facet)
	return c
}

func (c *Criteria) AddSorting(sorting Sorting) *Criteria {
	c.sortings.add(sorting)
	return c
}

func (c *Criteria) HasCondition(name string) bool {
	_, ok := c.GetCondition(name)
	return ok
}

func (c *Criteria) HasBaseCondition(name string) bool {
	_, ok := c.baseConditions.get(name)
	return ok
}

func (c *Criteria) HasUserCondition(name string) bool {
	_, ok := c.conditions.get(name)
	return ok
}

// GetCondition looks up name in base conditions first, then in user conditions.
func (c *Criteria) GetCondition(name string) (Condition, bool) {
	if condition, ok := c.baseConditions.get(name); ok {
		return condition, true
	}
	return c.conditions.get(name)
}

func (c *Criteria) GetBaseCondition(name string) (Condition, bool) {
	return c.baseConditions.get(name)
}

func (c *Criteria) GetFacet(name string) (Facet, bool) {
	return c.facets.get(name)
}

func (c *Criteria) HasFacet(name string) bool {
	_, ok := c.facets.get(name)
	return ok
}

func (c *Criteria) GetSorting(name string) (Sorting, bool) {
	return c.sortings.get(name)
}

// RemoveCondition removes name from base and user conditions.
func (c *Criteria) RemoveCondition(name string) *Criteria {
	c.baseConditions.remove(name)
	c.conditions.remove(name)
	return c
}

// RemoveUserCondition keeps a base condition of the same name.
func (c *Criteria) RemoveUserCondition(name string) *Criteria {
	c.conditions.remove(name)
	return c
}

func (c *Criteria) RemoveBaseCondition(name string) *Criteria {
	c.baseConditions.remove(name)
	return c
}

func (c *Criteria) RemoveFacet(name string) *Criteria {
	c.facets.remove(name)
	return c
}

func (c *Criteria) RemoveSorting(name string) *Criteria {
	c.sortings.remove(name)
	return c
}

func (c *Criteria) ResetSorting() *Criteria {
	c.sortings = namedSet[Sorting]{}
	return c
}

func (c *Criteria) ResetFacets() *Criteria {
	c.facets = namedSet[Facet]{}
	return c
}

func (c *Criteria) ResetConditions() *Criteria {
	c.conditions = namedSet[Condition]{}
	return c
}

func (c *Criteria) ResetBaseConditions() *Criteria {
	c.baseConditions = namedSet[Condition]{}
	return c
}

// Conditions returns base conditions followed by user conditions.
func (c *Criteria) Conditions() []Condition {
	return append(c.baseConditions.all(), c.conditions.all()...)
}

func (c *Criteria) BaseConditions() []Condition { return c.baseConditions.all() }
func (c *Criteria) UserConditions() []Condition { return c.conditions.all() }
func (c *Criteria) Facets() []Facet             { return c.facets.all() }
func (c *Criteria) Sortings() []Sorting         { return c.sortings.all() }

// Clone returns a copy that can be modified without touching c.
func (c *Criteria) Clone() *Criteria {
	return &Criteria{
		offset:         c.offset,
		limit:          c.limit,
		baseConditions: c.baseConditions.clone(),
		conditions:     c.conditions.clone(),
		facets:         c.facets.clone(),
		sortings:       c.sortings.clone(),
		fetchCount:     c.fetchCount,
	}
}
