package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
)

type contractorService struct {
	contractors repository.ContractorRepo
}

func NewContractorService(contractors repository.ContractorRepo) ContractorService {
	return &contractorService{contractors: contractors}
}

func (s *contractorService) Create(ctx context.Context, c *domain.Contractor) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contractor name is required: %w", domain.ErrValidation)
	}
	c.CreatedAt = time.Now().UTC()
	return s.contractors.Create(ctx, c)
}

func (s *contractorService) ListByProject(ctx context.Context, projectID string) ([]domain.Contractor, error) {
	return s.contractors.ListByProject(ctx, projectID)
}

func (s *contractorService) Delete(ctx context.Context, id int64) error {
	return s.contractors.Delete(ctx, id)
}

type packageService struct {
	packages    repository.WorkPackageRepo
	contractors repository.ContractorRepo
}

func NewPackageService(packages repository.WorkPackageRepo, contractors repository.ContractorRepo) PackageService {
	return &packageService{packages: packages, contractors: contractors}
}

func (s *packageService) Create(ctx context.Context, p *domain.WorkPackage) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("package name is required: %w", domain.ErrValidation)
	}
	if p.ContractorID != nil {
		c, err := s.contractors.GetByID(ctx, *p.ContractorID)
		if err != nil {
			return err
		}
		if c.ProjectID != p.ProjectID {
			return fmt.Errorf("contractor %d belongs to another project: %w", c.ID, domain.ErrValidation)
		}
	}
	p.CreatedAt = time.Now().UTC()
	return s.packages.Create(ctx, p)
}

func (s *packageService) ListByProject(ctx context.Context, projectID string) ([]domain.WorkPackage, error) {
	return s.packages.ListByProject(ctx, projectID)
}

func (s *packageService) Delete(ctx context.Context, id int64) error {
	return s.packages.Delete(ctx, id)
}
