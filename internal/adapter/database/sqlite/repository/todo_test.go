package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "todoapi/pkg/test"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/domain"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TodoRepositoryTestSuite struct {
	suite.Suite
	DB       *sqlite.DB
	TodoRepo *repository.TodoRepository
}

func (s *TodoRepositoryTestSuite) SetupTest() {
	s.DB = InitTestDB()

	repo, err := repository.NewTodoRepository(context.Background(), s.DB, nil)
	s.Require().NoError(err)

	s.TodoRepo = repo
}

func (s *TodoRepositoryTestSuite) TearDownTest() {
	s.TodoRepo.Close()
}

func TestTodoRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositoryTestSuite))
}

func (s *TodoRepositoryTestSuite) TestRepository_List_Seeded() {
	todos, err := s.TodoRepo.List(context.Background())

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].ID).To(Equal(1))
	Expect(todos[0].Title).To(Equal(domain.SeedTodoTitle))
	Expect(todos[0].Description).To(Equal(domain.SeedTodoDescription))
	Expect(todos[0].Completed).To(BeFalse())
}

func (s *TodoRepositoryTestSuite) TestRepository_Seed_OnlyWhenEmpty() {
	_, err := repository.NewTodoRepository(context.Background(), s.DB, nil)

	Expect(err).To(BeNil())
	Expect(CountRows(s.T(), s.DB, "todos")).To(Equal(1))
}

func (s *TodoRepositoryTestSuite) TestRepository_CreateTodo_Success() {
	now := time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC)

	todo, err := s.TodoRepo.Create(context.Background(), domain.NewTodo("Buy milk", "2L", now))

	Expect(err).To(BeNil())
	Expect(todo.ID).To(Equal(2))
	Expect(todo.Title).To(Equal("Buy milk"))

	found, err := s.TodoRepo.GetByID(context.Background(), todo.ID)

	Expect(err).To(BeNil())
	Expect(found).To(Equal(todo))
	Expect(found.CreatedAt.Equal(now)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestRepository_IDsNotReused() {
	todo, _ := s.TodoRepo.Create(context.Background(), domain.NewTodo("first", "", domain.Now()))

	_, err := s.TodoRepo.Delete(context.Background(), todo.ID)
	Expect(err).To(BeNil())

	next, err := s.TodoRepo.Create(context.Background(), domain.NewTodo("second", "", domain.Now()))

	Expect(err).To(BeNil())
	Expect(next.ID).To(Equal(todo.ID + 1))
}

func (s *TodoRepositoryTestSuite) TestRepository_List_OrderedByID() {
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.TodoRepo.Create(context.Background(), domain.NewTodo(title, "", domain.Now()))
		Expect(err).To(BeNil())
	}

	_, err := s.TodoRepo.Delete(context.Background(), 3)
	Expect(err).To(BeNil())

	todos, err := s.TodoRepo.List(context.Background())

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(3))
	Expect([]int{todos[0].ID, todos[1].ID, todos[2].ID}).To(Equal([]int{1, 2, 4}))
}

func (s *TodoRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	_, err := s.TodoRepo.GetByID(context.Background(), 999)

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestRepository_Update_Success() {
	later := domain.Now().Add(time.Minute)
	title := "Changed"
	done := true

	updated, err := s.TodoRepo.Update(context.Background(), 1, func(t *domain.Todo) error {
		t.Apply(domain.TodoPatch{Title: &title, Completed: &done}, later)
		t.ID = 42

		return nil
	})

	Expect(err).To(BeNil())
	Expect(updated.ID).To(Equal(1))
	Expect(updated.Title).To(Equal("Changed"))
	Expect(updated.Description).To(Equal(domain.SeedTodoDescription))
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.UpdatedAt.Equal(later)).To(BeTrue())
	Expect(updated.CreatedAt.Before(updated.UpdatedAt)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestRepository_Update_MutateErrorLeavesRow() {
	before, _ := s.TodoRepo.GetByID(context.Background(), 1)

	_, err := s.TodoRepo.Update(context.Background(), 1, func(t *domain.Todo) error {
		t.Title = "should not persist"

		return domain.NewValidationError("title", "Title cannot be empty")
	})

	var validationErr *domain.ValidationError
	Expect(errors.As(err, &validationErr)).To(BeTrue())

	after, _ := s.TodoRepo.GetByID(context.Background(), 1)
	Expect(after).To(Equal(before))
}

func (s *TodoRepositoryTestSuite) TestRepository_Update_NotFound() {
	called := false

	_, err := s.TodoRepo.Update(context.Background(), 999, func(t *domain.Todo) error {
		called = true
		return nil
	})

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
	Expect(called).To(BeFalse())
}

func (s *TodoRepositoryTestSuite) TestRepository_Delete_ReturnsRemoved() {
	deleted, err := s.TodoRepo.Delete(context.Background(), 1)

	Expect(err).To(BeNil())
	Expect(deleted.ID).To(Equal(1))
	Expect(deleted.Title).To(Equal(domain.SeedTodoTitle))
	Expect(CountRows(s.T(), s.DB, "todos")).To(Equal(0))

	_, err = s.TodoRepo.Delete(context.Background(), 1)
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}
