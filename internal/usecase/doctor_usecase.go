package usecase

import (
	"context"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/cache"

	"github.com/sirupsen/logrus"
)

type DoctorUsecase interface {
	ListAdmin(ctx context.Context) ([]entity.Doctor, error)
	NameMap(ctx context.Context) (entity.NameMap, error)
	ListForPatient(ctx context.Context) ([]entity.Doctor, error)
	Create(ctx context.Context, req *dto.CreateDoctorRequest) error
}

type doctorUsecase struct {
	log     *logrus.Logger
	backend BackendAPI
	query   *cache.Query
}

func NewDoctorUsecase(log *logrus.Logger, backend BackendAPI, query *cache.Query) DoctorUsecase {
	return &doctorUsecase{
		log:     log,
		backend: backend,
		query:   query,
	}
}

func (u *doctorUsecase) fetchAdmin(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	if err := u.backend.Get(ctx, pathAdminDoctors, nil, &doctors); err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return doctors, nil
}

func (u *doctorUsecase) ListAdmin(ctx context.Context) ([]entity.Doctor, error) {
	return cache.Fetch(ctx, u.query, cache.Key(resAdminDoctors), ttlList, u.fetchAdmin)
}

func (u *doctorUsecase) NameMap(ctx context.Context) (entity.NameMap, error) {
	return cache.Fetch(ctx, u.query, cache.Key(resAdminDoctorsMap), ttlNameMap, func(ctx context.Context) (entity.NameMap, error) {
		doctors, err := u.fetchAdmin(ctx)
		if err != nil {
			return nil, err
		}
		m := make(entity.NameMap, len(doctors))
		for _, d := range doctors {
			m[d.ID] = d.Name
		}
		return m, nil
	})
}

func (u *doctorUsecase) ListForPatient(ctx context.Context) ([]entity.Doctor, error) {
	return cache.Fetch(ctx, u.query, cache.Key(resPatientDoctors), ttlDoctors, func(ctx context.Context) ([]entity.Doctor, error) {
		var doctors []entity.Doctor
		if err := u.backend.Get(ctx, pathPatientDoctors, nil, &doctors); err != nil {
			u.log.Warnf("Failed to list doctors for patient: %+v", err)
			return nil, err
		}
		return doctors, nil
	})
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest) error {
	if err := u.backend.Post(ctx, pathRegisterDoctor, req, nil); err != nil {
		u.log.Warnf("Failed to register doctor: %+v", err)
		return err
	}

	u.query.Invalidate(ctx,
		cache.Key(resAdminDoctors),
		cache.Key(resAdminDoctorsMap),
		cache.Key(resPatientDoctors),
	)
	return nil
}
