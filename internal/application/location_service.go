package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
	"github.com/wms-platform/putaway-service/pkg/logging"
)

// LocationService is the Location Directory
type LocationService struct {
	repos  Repositories
	codes  *domain.CodeGenerator
	logger *logging.Logger
	now    func() time.Time
}

// NewLocationService creates a new LocationService
func NewLocationService(repos Repositories, logger *logging.Logger) *LocationService {
	return &LocationService{
		repos:  repos,
		codes:  domain.NewCodeGenerator(),
		logger: logger,
		now:    defaultClock,
	}
}

// RegisterLocation creates an active location with a fresh confirmation code.
// The code is returned once here and on every rotation.
func (s *LocationService) RegisterLocation(ctx context.Context, cmd RegisterLocationCommand) (*LocationCodeDTO, error) {
	var location *domain.Location
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		code, err := s.codes.ConfirmationCode(txCtx, s.repos.Locations.ConfirmationCodeInUse)
		if err != nil {
			return err
		}

		location, err = domain.NewLocation(
			uuid.New().String(),
			strings.TrimSpace(cmd.Code),
			domain.LocationType(cmd.Type),
			cmd.Capacity,
			cmd.MaxWeight,
			code,
		)
		if err != nil {
			return err
		}
		now := s.now()
		location.CreatedAt, location.UpdatedAt = now, now

		return s.repos.Locations.Create(txCtx, location)
	})
	if err != nil {
		return nil, toAppError(err, refs{}, "register location").WithDetail("code", cmd.Code)
	}

	s.logger.WithContext(ctx).Info("Registered location",
		"locationId", location.ID,
		"code", location.Code,
		"type", location.Type,
	)

	return &LocationCodeDTO{Location: ToLocationDTO(location), ConfirmationCode: location.ConfirmationCode}, nil
}

// RotateConfirmationCode issues a new confirmation code for a location
func (s *LocationService) RotateConfirmationCode(ctx context.Context, locationID string) (*LocationCodeDTO, error) {
	var location *domain.Location
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if location, err = s.repos.Locations.FindByID(txCtx, locationID); err != nil {
			return err
		}
		if location, err = s.rotate(txCtx, location); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err, refs{locationID: locationID}, "rotate confirmation code")
	}

	s.logger.Audit(ctx, "location.rotate_code", "location", location.ID, nil)

	return &LocationCodeDTO{Location: ToLocationDTO(location), ConfirmationCode: location.ConfirmationCode}, nil
}

func (s *LocationService) rotate(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	code, err := s.codes.ConfirmationCode(ctx, s.repos.Locations.ConfirmationCodeInUse)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repos.Locations.UpdateConfirmationCode(ctx, location.ID, code, now); err != nil {
		return nil, err
	}
	location.ConfirmationCode = code
	location.UpdatedAt = now
	return location, nil
}

// SetLocationActive activates or deactivates a location. A location whose code
// was reissued to another slot while it was inactive gets a new code on
// activation, returned in the result.
func (s *LocationService) SetLocationActive(ctx context.Context, cmd SetLocationActiveCommand) (*LocationCodeDTO, error) {
	var (
		location *domain.Location
		rotated  bool
	)
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		rotated = false
		if location, err = s.repos.Locations.FindByID(txCtx, cmd.LocationID); err != nil {
			return err
		}
		if location.Active == cmd.Active {
			return nil
		}

		if cmd.Active {
			inUse, err := s.repos.Locations.ConfirmationCodeInUse(txCtx, location.ConfirmationCode)
			if err != nil {
				return err
			}
			if inUse {
				if location, err = s.rotate(txCtx, location); err != nil {
					return err
				}
				rotated = true
			}
		}

		now := s.now()
		if err := s.repos.Locations.SetActive(txCtx, location.ID, cmd.Active, now); err != nil {
			return err
		}
		location.Active = cmd.Active
		location.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, toAppError(err, refs{locationID: cmd.LocationID}, "set location active")
	}

	s.logger.WithContext(ctx).Info("Set location active",
		"locationId", location.ID,
		"active", location.Active,
		"codeRotated", rotated,
	)

	result := &LocationCodeDTO{Location: ToLocationDTO(location)}
	if rotated {
		result.ConfirmationCode = location.ConfirmationCode
	}
	return result, nil
}

// GetLocation retrieves a location by ID
func (s *LocationService) GetLocation(ctx context.Context, locationID string) (*LocationDTO, error) {
	location, err := s.repos.Locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, toAppError(err, refs{locationID: locationID}, "get location")
	}
	dto := ToLocationDTO(location)
	return &dto, nil
}

// ListLocations lists locations ordered by code
func (s *LocationService) ListLocations(ctx context.Context, query ListLocationsQuery) ([]LocationDTO, int64, error) {
	filter := domain.LocationFilter{Active: query.Active}
	if query.Type != "" {
		t := domain.LocationType(query.Type)
		if !t.IsValid() {
			return nil, 0, errors.ErrValidation("invalid location type").WithDetail("type", query.Type)
		}
		filter.Type = &t
	}

	locations, total, err := s.repos.Locations.List(ctx, filter, query.Page)
	if err != nil {
		return nil, 0, toAppError(err, refs{}, "list locations")
	}
	return mapSlice(locations, ToLocationDTO), total, nil
}
