package service

import (
	"fmt"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/validator"

	"github.com/google/uuid"
)

type VendorService interface {
	CreateVendor(req *CreateVendorRequest, userID string) (*model.Vendor, error)
	UpdateVendor(id uuid.UUID, req *CreateVendorRequest, userID string) (*model.Vendor, error)
	SetActive(id uuid.UUID, active bool) error
	GetVendors() ([]model.Vendor, error)
	GetVendorByID(id uuid.UUID) (*model.Vendor, error)
}

type CreateVendorRequest struct {
	StoreName string `json:"store_name" validate:"required"`
	OwnerName string `json:"owner_name" validate:"required"`
	Phone     string `json:"phone"`
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

func (s *vendorService) CreateVendor(req *CreateVendorRequest, userID string) (*model.Vendor, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	vendor := &model.Vendor{
		StoreName: req.StoreName,
		OwnerName: req.OwnerName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	vendor.CreatedBy = userID
	vendor.UpdatedBy = userID

	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) UpdateVendor(id uuid.UUID, req *CreateVendorRequest, userID string) (*model.Vendor, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	vendor, err := s.vendorRepo.FindByID(id)
	if err != nil {
		return nil, ErrVendorNotFound
	}

	vendor.StoreName = req.StoreName
	vendor.OwnerName = req.OwnerName
	vendor.Phone = req.Phone
	vendor.UpdatedBy = userID

	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) SetActive(id uuid.UUID, active bool) error {
	if _, err := s.vendorRepo.FindByID(id); err != nil {
		return ErrVendorNotFound
	}
	return s.vendorRepo.SetActive(id, active)
}

func (s *vendorService) GetVendors() ([]model.Vendor, error) {
	return s.vendorRepo.FindAll()
}

func (s *vendorService) GetVendorByID(id uuid.UUID) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(id)
	if err != nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}
