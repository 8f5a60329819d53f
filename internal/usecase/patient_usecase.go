package usecase

import (
	"context"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/cache"

	"github.com/sirupsen/logrus"
)

type PatientUsecase interface {
	ListAdmin(ctx context.Context, search string) ([]entity.Patient, error)
	NameMap(ctx context.Context) (entity.NameMap, error)
	Profile(ctx context.Context) (*entity.Patient, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*entity.Patient, error)
}

type patientUsecase struct {
	log     *logrus.Logger
	backend BackendAPI
	query   *cache.Query
}

func NewPatientUsecase(log *logrus.Logger, backend BackendAPI, query *cache.Query) PatientUsecase {
	return &patientUsecase{
		log:     log,
		backend: backend,
		query:   query,
	}
}

func (u *patientUsecase) fetchAdmin(ctx context.Context) ([]entity.Patient, error) {
	var patients []entity.Patient
	if err := u.backend.Get(ctx, pathAdminPatients, nil, &patients); err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}
	return patients, nil
}

// ListAdmin returns all patients matching search. The backend has no search
// parameter, so the cached full list is filtered here.
func (u *patientUsecase) ListAdmin(ctx context.Context, search string) ([]entity.Patient, error) {
	patients, err := cache.Fetch(ctx, u.query, cache.Key(resAdminPatients), ttlList, u.fetchAdmin)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Patient, 0, len(patients))
	for i := range patients {
		if patients[i].Matches(search) {
			filtered = append(filtered, patients[i])
		}
	}
	return filtered, nil
}

func (u *patientUsecase) NameMap(ctx context.Context) (entity.NameMap, error) {
	return cache.Fetch(ctx, u.query, cache.Key(resAdminPatientsMap), ttlNameMap, func(ctx context.Context) (entity.NameMap, error) {
		patients, err := u.fetchAdmin(ctx)
		if err != nil {
			return nil, err
		}
		m := make(entity.NameMap, len(patients))
		for _, p := range patients {
			m[p.ID] = p.Name
		}
		return m, nil
	})
}

func (u *patientUsecase) Profile(ctx context.Context) (*entity.Patient, error) {
	sub, err := subject(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, u.query, cache.Key(resPatientProfile, sub), ttlProfile, func(ctx context.Context) (*entity.Patient, error) {
		var profile entity.Patient
		if err := u.backend.Get(ctx, pathPatientProfile, nil, &profile); err != nil {
			u.log.Warnf("Failed to load patient profile: %+v", err)
			return nil, err
		}
		return &profile, nil
	})
}

func (u *patientUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*entity.Patient, error) {
	sub, err := subject(ctx)
	if err != nil {
		return nil, err
	}

	var updated entity.Patient
	if err := u.backend.Put(ctx, pathPatientProfile, req, &updated); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	u.query.Invalidate(ctx, cache.Key(resPatientProfile, sub))
	return &updated, nil
}
