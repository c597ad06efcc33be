package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type fakeTransactor struct {
	began      int
	rolledBack int
}

func (f *fakeTransactor) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	f.began++
	if err := fn(ctx); err != nil {
		f.rolledBack++
		return err
	}
	return nil
}

type mockEnrollmentStore struct {
	nextID   int64
	created  []*models.Enrollment
	existing map[int64]models.Enrollment
	children []int64
	deleted  []int64
	details  []models.EnrollmentDetail
}

func (m *mockEnrollmentStore) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.nextID++
	enrollment.ID = m.nextID
	m.created = append(m.created, enrollment)
	return nil
}

func (m *mockEnrollmentStore) FindForStudent(ctx context.Context, enrollmentID, studentID int64) (*models.Enrollment, error) {
	if e, ok := m.existing[enrollmentID]; ok && e.StudentID == studentID {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentStore) PendingChildIDs(ctx context.Context, studentID, packageOfferingID int64) ([]int64, error) {
	return m.children, nil
}

func (m *mockEnrollmentStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockEnrollmentStore) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

type mockCourseReader struct {
	offerings map[int64]models.CourseOffering
	prices    map[int64]float64
}

func (m *mockCourseReader) FindOffering(ctx context.Context, id int64) (*models.CourseOffering, error) {
	if o, ok := m.offerings[id]; ok {
		return &o, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseReader) OfferingPrice(ctx context.Context, id int64) (float64, error) {
	return m.prices[id], nil
}

type mockPackageReader struct {
	offerings map[int64]models.PackageOffering
	prices    map[int64]float64
}

func (m *mockPackageReader) FindOffering(ctx context.Context, id int64) (*models.PackageOffering, error) {
	if o, ok := m.offerings[id]; ok {
		return &o, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPackageReader) OfferingPrice(ctx context.Context, id int64) (float64, error) {
	return m.prices[id], nil
}

type mockStudentFinder struct {
	ids map[int64]bool
}

func (m *mockStudentFinder) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.ids[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type stubChecker struct {
	courseErr  error
	packageErr error
}

func (s *stubChecker) CheckCourse(ctx context.Context, studentID int64, offering *models.CourseOffering) error {
	return s.courseErr
}

func (s *stubChecker) CheckPackage(ctx context.Context, studentID int64, offering *models.PackageOffering) error {
	return s.packageErr
}

type stubExpander struct {
	entries   []models.CreatedEntry
	summaries []models.PackageCourseSummary
}

func (s *stubExpander) Expand(ctx context.Context, studentID int64, offering *models.PackageOffering) ([]models.CreatedEntry, []models.PackageCourseSummary, error) {
	return s.entries, s.summaries, nil
}

type stubBillingGen struct {
	nextPlanID int64
	generated  []int64
}

func (s *stubBillingGen) Generate(ctx context.Context, enrollmentID int64, amount float64) (*models.PaymentPlan, *models.Installment, error) {
	s.nextPlanID++
	s.generated = append(s.generated, enrollmentID)
	plan := &models.PaymentPlan{ID: s.nextPlanID, EnrollmentID: enrollmentID, TotalAmount: amount, Installments: 1}
	installment := &models.Installment{ID: s.nextPlanID * 100, PaymentPlanID: plan.ID, Number: 1, Amount: amount}
	return plan, installment, nil
}

type mockBillingStore struct {
	plans              map[int64]models.PaymentPlan
	blocking           map[int64]int
	installments       map[int64][]models.Installment
	deletedPlans       []int64
	deletedInstallment []int64
}

func (m *mockBillingStore) PlanByEnrollment(ctx context.Context, enrollmentID int64) (*models.PaymentPlan, error) {
	if p, ok := m.plans[enrollmentID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBillingStore) InstallmentsByPlan(ctx context.Context, planID int64) ([]models.Installment, error) {
	return m.installments[planID], nil
}

func (m *mockBillingStore) CountBlocking(ctx context.Context, planID int64) (int, error) {
	return m.blocking[planID], nil
}

func (m *mockBillingStore) DeleteInstallmentsByPlan(ctx context.Context, planID int64) error {
	m.deletedInstallment = append(m.deletedInstallment, planID)
	return nil
}

func (m *mockBillingStore) DeletePlan(ctx context.Context, planID int64) error {
	m.deletedPlans = append(m.deletedPlans, planID)
	return nil
}

func newEnrollmentFixture() (*EnrollmentService, *fakeTransactor, *mockEnrollmentStore, *stubBillingGen, *mockBillingStore) {
	tx := &fakeTransactor{}
	enrollments := &mockEnrollmentStore{existing: map[int64]models.Enrollment{}}
	courses := &mockCourseReader{
		offerings: map[int64]models.CourseOffering{10: {ID: 10, CourseID: 1, CycleID: 1}},
		prices:    map[int64]float64{10: 150},
	}
	packages := &mockPackageReader{
		offerings: map[int64]models.PackageOffering{20: {ID: 20, PackageID: 2, CycleID: 1}},
		prices:    map[int64]float64{20: 400},
	}
	students := &mockStudentFinder{ids: map[int64]bool{1: true}}
	billingGen := &stubBillingGen{}
	billing := &mockBillingStore{plans: map[int64]models.PaymentPlan{}, blocking: map[int64]int{}}
	svc := NewEnrollmentService(tx, enrollments, courses, packages, students, &stubChecker{},
		&stubExpander{}, billingGen, billing, validator.New(), zap.NewNop())
	return svc, tx, enrollments, billingGen, billing
}

func TestEnrollCourseCreatesEnrollmentAndPlan(t *testing.T) {
	svc, tx, enrollments, billingGen, _ := newEnrollmentFixture()

	result, err := svc.Enroll(context.Background(), 1, dto.EnrollRequest{
		Items: []dto.EnrollItem{{Type: models.EnrollmentTypeCourse, ID: 10}},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	entry := result.Created[0]
	assert.Equal(t, models.EnrollmentTypeCourse, entry.Type)
	assert.Equal(t, int64(10), entry.OfferingID)
	assert.Equal(t, 150.0, entry.Amount)
	assert.NotZero(t, entry.PaymentPlanID)
	assert.NotZero(t, entry.InstallmentID)

	require.Len(t, enrollments.created, 1)
	assert.Equal(t, models.EnrollmentStatusPending, enrollments.created[0].Status)
	assert.Equal(t, 1, tx.began)
	assert.Zero(t, tx.rolledBack)
	assert.Equal(t, []int64{1}, billingGen.generated)
}

func TestEnrollUnknownStudent(t *testing.T) {
	svc, tx, _, _, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), 99, dto.EnrollRequest{
		Items: []dto.EnrollItem{{Type: models.EnrollmentTypeCourse, ID: 10}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	assert.Zero(t, tx.began)
}

func TestEnrollUnknownOfferingRollsBackBatch(t *testing.T) {
	svc, tx, enrollments, _, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), 1, dto.EnrollRequest{
		Items: []dto.EnrollItem{
			{Type: models.EnrollmentTypeCourse, ID: 10},
			{Type: models.EnrollmentTypeCourse, ID: 999},
		},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, tx.rolledBack)
	// The first item was written inside the transaction that rolled back.
	assert.Len(t, enrollments.created, 1)
}

func TestEnrollEligibilityConflictStopsBatch(t *testing.T) {
	tx := &fakeTransactor{}
	enrollments := &mockEnrollmentStore{}
	courses := &mockCourseReader{offerings: map[int64]models.CourseOffering{10: {ID: 10}}, prices: map[int64]float64{10: 100}}
	packages := &mockPackageReader{}
	students := &mockStudentFinder{ids: map[int64]bool{1: true}}
	checker := &stubChecker{courseErr: appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course")}
	svc := NewEnrollmentService(tx, enrollments, courses, packages, students, checker,
		&stubExpander{}, &stubBillingGen{}, &mockBillingStore{}, validator.New(), zap.NewNop())

	_, err := svc.Enroll(context.Background(), 1, dto.EnrollRequest{
		Items: []dto.EnrollItem{{Type: models.EnrollmentTypeCourse, ID: 10}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
	assert.Empty(t, enrollments.created)
	assert.Equal(t, 1, tx.rolledBack)
}

func TestEnrollPackageExpandsChildren(t *testing.T) {
	tx := &fakeTransactor{}
	enrollments := &mockEnrollmentStore{}
	courses := &mockCourseReader{}
	packages := &mockPackageReader{
		offerings: map[int64]models.PackageOffering{20: {ID: 20, PackageID: 2, CycleID: 1}},
		prices:    map[int64]float64{20: 400},
	}
	students := &mockStudentFinder{ids: map[int64]bool{1: true}}
	group := "A"
	expander := &stubExpander{
		entries:   []models.CreatedEntry{{EnrollmentID: 7, Type: models.EnrollmentTypeCourse, OfferingID: 31}},
		summaries: []models.PackageCourseSummary{{Name: "Algebra", Group: &group}, {Name: "Physics"}},
	}
	svc := NewEnrollmentService(tx, enrollments, courses, packages, students, &stubChecker{},
		expander, &stubBillingGen{}, &mockBillingStore{}, validator.New(), zap.NewNop())

	result, err := svc.Enroll(context.Background(), 1, dto.EnrollRequest{
		Items: []dto.EnrollItem{{Type: models.EnrollmentTypePackage, ID: 20}},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	parent := result.Created[0]
	assert.Equal(t, models.EnrollmentTypePackage, parent.Type)
	assert.Equal(t, 400.0, parent.Amount)
	assert.Len(t, parent.Courses, 2)

	child := result.Created[1]
	assert.Equal(t, models.EnrollmentTypeCourse, child.Type)
	assert.Equal(t, int64(31), child.OfferingID)
	// Children carry no billing of their own.
	assert.Zero(t, child.PaymentPlanID)
}

func TestEnrollValidatesPayload(t *testing.T) {
	svc, tx, _, _, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), 1, dto.EnrollRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Zero(t, tx.began)
}

func TestCancelPendingEnrollment(t *testing.T) {
	svc, _, enrollments, _, billing := newEnrollmentFixture()
	offeringID := int64(10)
	enrollments.existing[5] = models.Enrollment{
		ID: 5, StudentID: 1, CourseOfferingID: &offeringID,
		Type: models.EnrollmentTypeCourse, Status: models.EnrollmentStatusPending,
	}
	billing.plans[5] = models.PaymentPlan{ID: 50, EnrollmentID: 5}

	err := svc.Cancel(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, enrollments.deleted)
	assert.Equal(t, []int64{50}, billing.deletedInstallment)
	assert.Equal(t, []int64{50}, billing.deletedPlans)
}

func TestCancelRejectsAcceptedEnrollment(t *testing.T) {
	svc, _, enrollments, _, _ := newEnrollmentFixture()
	enrollments.existing[5] = models.Enrollment{
		ID: 5, StudentID: 1, Type: models.EnrollmentTypeCourse, Status: models.EnrollmentStatusAccepted,
	}

	err := svc.Cancel(context.Background(), 1, 5)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPreconditionFailed))
	assert.Empty(t, enrollments.deleted)
}

func TestCancelRejectsForeignEnrollment(t *testing.T) {
	svc, _, enrollments, _, _ := newEnrollmentFixture()
	enrollments.existing[5] = models.Enrollment{
		ID: 5, StudentID: 2, Type: models.EnrollmentTypeCourse, Status: models.EnrollmentStatusPending,
	}

	err := svc.Cancel(context.Background(), 1, 5)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestCancelBlockedByPaidInstallment(t *testing.T) {
	svc, _, enrollments, _, billing := newEnrollmentFixture()
	enrollments.existing[5] = models.Enrollment{
		ID: 5, StudentID: 1, Type: models.EnrollmentTypeCourse, Status: models.EnrollmentStatusPending,
	}
	billing.plans[5] = models.PaymentPlan{ID: 50, EnrollmentID: 5}
	billing.blocking[50] = 1

	err := svc.Cancel(context.Background(), 1, 5)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPreconditionFailed))
	assert.Empty(t, enrollments.deleted)
	assert.Empty(t, billing.deletedPlans)
}

func TestCancelPackageCascadesToChildren(t *testing.T) {
	svc, _, enrollments, _, billing := newEnrollmentFixture()
	packageOfferingID := int64(20)
	enrollments.existing[5] = models.Enrollment{
		ID: 5, StudentID: 1, PackageOfferingID: &packageOfferingID,
		Type: models.EnrollmentTypePackage, Status: models.EnrollmentStatusPending,
	}
	enrollments.children = []int64{6, 7}
	billing.plans[5] = models.PaymentPlan{ID: 50, EnrollmentID: 5}

	err := svc.Cancel(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{5, 6, 7}, enrollments.deleted)
}

func TestListByStudentFillsInstallments(t *testing.T) {
	svc, _, enrollments, _, billing := newEnrollmentFixture()
	planID := int64(50)
	enrollments.details = []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{ID: 5, StudentID: 1}, PaymentPlanID: &planID},
		{Enrollment: models.Enrollment{ID: 6, StudentID: 1}},
	}
	billing.installments = map[int64][]models.Installment{
		50: {{ID: 500, PaymentPlanID: 50, Number: 1, Amount: 150}},
	}

	details, err := svc.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Len(t, details[0].Installments, 1)
	assert.Empty(t, details[1].Installments)
}
