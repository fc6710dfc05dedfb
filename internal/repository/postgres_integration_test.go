//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/config"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/database"
)

type PostgresRepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	repo      *repository.PatientRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("healthtrack"),
		tcpostgres.WithUsername("healthtrack"),
		tcpostgres.WithPassword("healthtrack"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err, "failed to start postgres container")
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	db, err := database.Connect(config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		Name:            "healthtrack",
		User:            "healthtrack",
		Password:        "healthtrack",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db, zap.NewNop()))

	s.db = db
	s.repo = repository.NewPatientRepository(db)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if err := testcontainers.TerminateContainer(s.container); err != nil {
		s.T().Logf("failed to terminate postgres container: %v", err)
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.repo.DeleteAll(context.Background())
	s.Require().NoError(err)
}

func (s *PostgresRepositorySuite) TestUniqueViolationsCarryField() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, newRecord("Ana", "1234567890123456")))

	var conflict *patient.ConflictError

	err := s.repo.Create(ctx, newRecord("Bea", "1234 5678 9012 3456"))
	s.Require().ErrorAs(err, &conflict)
	s.Equal(patient.FieldNationalID, conflict.Field)

	err = s.repo.Create(ctx, newRecord("Ana", "6543210987654321"))
	s.Require().ErrorAs(err, &conflict)
	s.Equal(patient.FieldName, conflict.Field)
}

func (s *PostgresRepositorySuite) TestConcurrentInsertsSameNationalID() {
	ctx := context.Background()
	const writers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.repo.Create(ctx, newRecord(fmt.Sprintf("Patient %d", i), "1234567890123456"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, patient.ErrConflict):
				conflicts++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(writers-1, conflicts)

	all, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}
