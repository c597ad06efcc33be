package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/models"
)

type mockExpansionCatalog struct {
	mapped    []int64
	courseIDs []int64
}

func (m *mockExpansionCatalog) OfferingCourseIDs(ctx context.Context, packageOfferingID int64) ([]int64, error) {
	return m.mapped, nil
}

func (m *mockExpansionCatalog) CourseIDs(ctx context.Context, packageID int64) ([]int64, error) {
	return m.courseIDs, nil
}

type mockExpansionOfferings struct {
	earliest  map[int64]int64 // courseID -> offeringID
	summaries map[int64]models.PackageCourseSummary
}

func (m *mockExpansionOfferings) FindEarliestOffering(ctx context.Context, courseID, cycleID int64) (*models.CourseOffering, error) {
	if id, ok := m.earliest[courseID]; ok {
		return &models.CourseOffering{ID: id, CourseID: courseID, CycleID: cycleID}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockExpansionOfferings) OfferingSummary(ctx context.Context, offeringID int64) (*models.PackageCourseSummary, error) {
	if s, ok := m.summaries[offeringID]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockExpansionEnrollments struct {
	enrolled map[int64]bool
	nextID   int64
	created  []*models.Enrollment
}

func (m *mockExpansionEnrollments) HasNonCancelledCourse(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	return m.enrolled[courseOfferingID], nil
}

func (m *mockExpansionEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.nextID++
	enrollment.ID = m.nextID
	m.created = append(m.created, enrollment)
	return nil
}

func TestExpandUsesExplicitMapping(t *testing.T) {
	catalog := &mockExpansionCatalog{mapped: []int64{31, 32}, courseIDs: []int64{99}}
	offerings := &mockExpansionOfferings{summaries: map[int64]models.PackageCourseSummary{
		31: {Name: "Algebra"},
		32: {Name: "Physics"},
	}}
	enrollments := &mockExpansionEnrollments{}
	expander := NewPackageExpander(catalog, offerings, enrollments, zap.NewNop())

	offering := &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1}
	entries, summaries, err := expander.Expand(context.Background(), 1, offering)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, summaries, 2)

	require.Len(t, enrollments.created, 2)
	for _, child := range enrollments.created {
		assert.Equal(t, models.EnrollmentTypeCourse, child.Type)
		assert.Equal(t, models.EnrollmentStatusPending, child.Status)
		require.NotNil(t, child.PackageOfferingID)
		assert.Equal(t, int64(20), *child.PackageOfferingID)
	}
}

func TestExpandFallsBackToCatalog(t *testing.T) {
	catalog := &mockExpansionCatalog{courseIDs: []int64{1, 2}}
	offerings := &mockExpansionOfferings{
		earliest: map[int64]int64{1: 31, 2: 32},
		summaries: map[int64]models.PackageCourseSummary{
			31: {Name: "Algebra"},
			32: {Name: "Physics"},
		},
	}
	enrollments := &mockExpansionEnrollments{}
	expander := NewPackageExpander(catalog, offerings, enrollments, zap.NewNop())

	entries, _, err := expander.Expand(context.Background(), 1, &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExpandSkipsCourseWithoutOffering(t *testing.T) {
	catalog := &mockExpansionCatalog{courseIDs: []int64{1, 2}}
	offerings := &mockExpansionOfferings{
		earliest:  map[int64]int64{1: 31},
		summaries: map[int64]models.PackageCourseSummary{31: {Name: "Algebra"}},
	}
	enrollments := &mockExpansionEnrollments{}
	expander := NewPackageExpander(catalog, offerings, enrollments, zap.NewNop())

	entries, _, err := expander.Expand(context.Background(), 1, &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExpandSkipsAlreadyEnrolledCourse(t *testing.T) {
	catalog := &mockExpansionCatalog{mapped: []int64{31, 32}}
	offerings := &mockExpansionOfferings{summaries: map[int64]models.PackageCourseSummary{
		31: {Name: "Algebra"},
		32: {Name: "Physics"},
	}}
	enrollments := &mockExpansionEnrollments{enrolled: map[int64]bool{31: true}}
	expander := NewPackageExpander(catalog, offerings, enrollments, zap.NewNop())

	entries, summaries, err := expander.Expand(context.Background(), 1, &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(32), entries[0].OfferingID)
	// The skipped course still shows up in the package summary.
	assert.Len(t, summaries, 2)
}
