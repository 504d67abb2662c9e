package portfolio_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

func newCandidate(businessID uuid.UUID, citySlug, projectType string) *portfolio.Project {
	return &portfolio.Project{
		ID:          uuid.New(),
		BusinessID:  businessID,
		CitySlug:    citySlug,
		ProjectType: projectType,
	}
}

func idsOf(projects []*portfolio.Project) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestClassify(t *testing.T) {
	bizID := uuid.New()
	current := portfolio.ProjectRef{
		ID:          uuid.New(),
		BusinessID:  bizID,
		CitySlug:    "denver-co",
		ProjectType: "chimney-repair",
	}

	tests := []struct {
		name      string
		candidate *portfolio.Project
		want      portfolio.Bucket
	}{
		{
			name:      "same business",
			candidate: newCandidate(bizID, "boulder-co", "roofing"),
			want:      portfolio.BucketSameBusiness,
		},
		{
			name:      "same business wins over same city and type",
			candidate: newCandidate(bizID, "denver-co", "chimney-repair"),
			want:      portfolio.BucketSameBusiness,
		},
		{
			name:      "same type in another city",
			candidate: newCandidate(uuid.New(), "boulder-co", "chimney-repair"),
			want:      portfolio.BucketSameTypeOtherCity,
		},
		{
			name:      "same city with another type",
			candidate: newCandidate(uuid.New(), "denver-co", "roofing"),
			want:      portfolio.BucketSameCityOtherType,
		},
		{
			name:      "same city and same type but different business",
			candidate: newCandidate(uuid.New(), "denver-co", "chimney-repair"),
			want:      portfolio.BucketUnmatched,
		},
		{
			name:      "nothing in common",
			candidate: newCandidate(uuid.New(), "boulder-co", "roofing"),
			want:      portfolio.BucketUnmatched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, portfolio.Classify(current, tt.candidate))
		})
	}
}

func TestSelectRelated(t *testing.T) {
	bizID := uuid.New()
	current := portfolio.ProjectRef{
		ID:          uuid.New(),
		BusinessID:  bizID,
		CitySlug:    "denver-co",
		ProjectType: "chimney-repair",
	}

	t.Run("empty candidates returns empty", func(t *testing.T) {
		result := portfolio.SelectRelated(current, nil, 6)
		assert.Empty(t, result)

		result = portfolio.SelectRelated(current, []*portfolio.Project{}, 6)
		assert.Empty(t, result)
	})

	t.Run("zero limit returns empty", func(t *testing.T) {
		candidates := []*portfolio.Project{
			newCandidate(bizID, "boulder-co", "roofing"),
		}
		assert.Empty(t, portfolio.SelectRelated(current, candidates, 0))
	})

	t.Run("bound invariant", func(t *testing.T) {
		var candidates []*portfolio.Project
		for i := 0; i < 10; i++ {
			candidates = append(candidates, newCandidate(bizID, "boulder-co", "roofing"))
		}

		for limit := 1; limit <= 12; limit++ {
			result := portfolio.SelectRelated(current, candidates, limit)
			assert.LessOrEqual(t, len(result), limit)
		}
	})

	t.Run("current project never selected", func(t *testing.T) {
		self := &portfolio.Project{
			ID:          current.ID,
			BusinessID:  bizID,
			CitySlug:    "denver-co",
			ProjectType: "chimney-repair",
		}
		other := newCandidate(bizID, "boulder-co", "roofing")

		result := portfolio.SelectRelated(current, []*portfolio.Project{self, other}, 6)
		require.Len(t, result, 1)
		assert.Equal(t, other.ID, result[0].ID)
	})

	t.Run("duplicate id kept once", func(t *testing.T) {
		p := newCandidate(bizID, "boulder-co", "roofing")
		result := portfolio.SelectRelated(current, []*portfolio.Project{p, p}, 6)
		require.Len(t, result, 1)
		assert.Equal(t, p.ID, result[0].ID)
	})

	t.Run("priority ordering", func(t *testing.T) {
		ownerA1 := newCandidate(bizID, "boulder-co", "roofing")
		ownerA2 := newCandidate(bizID, "aurora-co", "masonry")
		ownerA3 := newCandidate(bizID, "golden-co", "roofing")
		typeB1 := newCandidate(uuid.New(), "boulder-co", "chimney-repair")
		typeB2 := newCandidate(uuid.New(), "aurora-co", "chimney-repair")
		cityC1 := newCandidate(uuid.New(), "denver-co", "roofing")
		cityC2 := newCandidate(uuid.New(), "denver-co", "masonry")

		candidates := []*portfolio.Project{
			cityC1, typeB1, ownerA1, ownerA2, cityC2, typeB2, ownerA3,
		}

		result := portfolio.SelectRelated(current, candidates, 6)
		require.Len(t, result, 6)
		assert.Equal(t, []uuid.UUID{
			ownerA1.ID, ownerA2.ID,
			typeB1.ID, typeB2.ID,
			cityC1.ID, cityC2.ID,
		}, idsOf(result))
	})

	t.Run("fill pass drains a single bucket past its cap", func(t *testing.T) {
		p1 := newCandidate(bizID, "boulder-co", "roofing")
		p2 := newCandidate(bizID, "aurora-co", "roofing")
		p3 := newCandidate(bizID, "golden-co", "roofing")
		p4 := newCandidate(bizID, "lakewood-co", "roofing")

		result := portfolio.SelectRelated(current, []*portfolio.Project{p1, p2, p3, p4}, 4)
		require.Len(t, result, 4)
		assert.Equal(t, []uuid.UUID{p1.ID, p2.ID, p3.ID, p4.ID}, idsOf(result))
	})

	t.Run("unmatched candidates never selected", func(t *testing.T) {
		unrelated := newCandidate(uuid.New(), "boulder-co", "roofing")
		related := newCandidate(bizID, "boulder-co", "roofing")

		result := portfolio.SelectRelated(current, []*portfolio.Project{unrelated, related}, 10)
		require.Len(t, result, 1)
		assert.Equal(t, related.ID, result[0].ID)
	})

	t.Run("fewer eligible than limit returns all without padding", func(t *testing.T) {
		a := newCandidate(bizID, "boulder-co", "roofing")
		b := newCandidate(uuid.New(), "boulder-co", "chimney-repair")

		result := portfolio.SelectRelated(current, []*portfolio.Project{a, b}, 6)
		require.Len(t, result, 2)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, idsOf(result))
	})

	t.Run("input order preserved within a bucket", func(t *testing.T) {
		first := newCandidate(uuid.New(), "boulder-co", "chimney-repair")
		second := newCandidate(uuid.New(), "aurora-co", "chimney-repair")

		result := portfolio.SelectRelated(current, []*portfolio.Project{first, second}, 6)
		require.Len(t, result, 2)
		assert.Equal(t, []uuid.UUID{first.ID, second.ID}, idsOf(result))
	})

	t.Run("candidate slice not mutated", func(t *testing.T) {
		a := newCandidate(bizID, "boulder-co", "roofing")
		b := newCandidate(uuid.New(), "boulder-co", "chimney-repair")
		c := newCandidate(uuid.New(), "denver-co", "roofing")
		candidates := []*portfolio.Project{c, b, a}

		portfolio.SelectRelated(current, candidates, 6)

		assert.Equal(t, []*portfolio.Project{c, b, a}, candidates)
	})

	t.Run("mixed rail fills from same business first", func(t *testing.T) {
		// Three projects by the same contractor, two chimney repairs in
		// Boulder, nothing else in Denver. The rail shows all five, with the
		// third contractor project grouped with the first two.
		biz1a := newCandidate(bizID, "boulder-co", "roofing")
		biz1b := newCandidate(bizID, "aurora-co", "masonry")
		biz1c := newCandidate(bizID, "golden-co", "roofing")
		type1 := newCandidate(uuid.New(), "boulder-co", "chimney-repair")
		type2 := newCandidate(uuid.New(), "boulder-co", "chimney-repair")

		candidates := []*portfolio.Project{biz1a, biz1b, biz1c, type1, type2}

		result := portfolio.SelectRelated(current, candidates, 6)
		require.Len(t, result, 5)
		assert.Equal(t, []uuid.UUID{
			biz1a.ID, biz1b.ID, biz1c.ID,
			type1.ID, type2.ID,
		}, idsOf(result))
	})
}

func TestResolveCover(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		assert.Nil(t, portfolio.ResolveCover(nil))
		assert.Nil(t, portfolio.ResolveCover([]portfolio.ProjectImage{}))
	})

	t.Run("minimum display order wins", func(t *testing.T) {
		images := []portfolio.ProjectImage{
			{ID: uuid.New(), DisplayOrder: 1},
			{ID: uuid.New(), DisplayOrder: 0},
		}

		cover := portfolio.ResolveCover(images)
		require.NotNil(t, cover)
		assert.Equal(t, images[1].ID, cover.ID)
	})

	t.Run("ties broken by position", func(t *testing.T) {
		images := []portfolio.ProjectImage{
			{ID: uuid.New(), DisplayOrder: 3},
			{ID: uuid.New(), DisplayOrder: 0},
			{ID: uuid.New(), DisplayOrder: 0},
		}

		cover := portfolio.ResolveCover(images)
		require.NotNil(t, cover)
		assert.Equal(t, images[1].ID, cover.ID)
	})

	t.Run("input not mutated", func(t *testing.T) {
		a := portfolio.ProjectImage{ID: uuid.New(), DisplayOrder: 2}
		b := portfolio.ProjectImage{ID: uuid.New(), DisplayOrder: 1}
		images := []portfolio.ProjectImage{a, b}

		cover := portfolio.ResolveCover(images)
		require.NotNil(t, cover)
		assert.Equal(t, []portfolio.ProjectImage{a, b}, images)

		// returned value is a copy, not an alias into the slice
		cover.DisplayOrder = 99
		assert.Equal(t, 1, images[1].DisplayOrder)
	})
}
