package usecase

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/cache"

	"github.com/sirupsen/logrus"
)

type SlotUsecase interface {
	ListAdmin(ctx context.Context, q dto.SlotQuery) ([]entity.Slot, error)
	Create(ctx context.Context, req *dto.CreateSlotsRequest) (string, error)
	Cancel(ctx context.Context, id string) error
	ListFree(ctx context.Context, q dto.SlotQuery) ([]entity.Slot, error)
	RefreshFree(ctx context.Context, q dto.SlotQuery)
}

type slotUsecase struct {
	log     *logrus.Logger
	backend BackendAPI
	query   *cache.Query
}

func NewSlotUsecase(log *logrus.Logger, backend BackendAPI, query *cache.Query) SlotUsecase {
	return &slotUsecase{
		log:     log,
		backend: backend,
		query:   query,
	}
}

// ListAdmin returns nothing until both doctor and date are chosen.
func (u *slotUsecase) ListAdmin(ctx context.Context, q dto.SlotQuery) ([]entity.Slot, error) {
	if !q.Complete() {
		return nil, nil
	}
	key := cache.Key(resAdminSlots, q.DoctorID, q.Date)
	return cache.Fetch(ctx, u.query, key, ttlList, func(ctx context.Context) ([]entity.Slot, error) {
		params := url.Values{}
		params.Set("medicoId", q.DoctorID)
		params.Set("data", q.Date)

		var slots []entity.Slot
		if err := u.backend.Get(ctx, pathAdminSlots, params, &slots); err != nil {
			u.log.Warnf("Failed to list slots: %+v", err)
			return nil, err
		}
		entity.SortSlots(slots)
		return slots, nil
	})
}

// Create asks the backend to generate the slots and returns how many were
// created, as text. Backends answer with the slot list or with {"count": n}.
func (u *slotUsecase) Create(ctx context.Context, req *dto.CreateSlotsRequest) (string, error) {
	var raw json.RawMessage
	if err := u.backend.Post(ctx, pathAdminSlots, req, &raw); err != nil {
		u.log.Warnf("Failed to create slots: %+v", err)
		return "", err
	}

	u.query.Invalidate(ctx, cache.Key(resAdminSlots), cache.Key(resFreeSlots))
	return createdCount(raw), nil
}

func createdCount(raw json.RawMessage) string {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return strconv.Itoa(len(list))
	}
	var obj struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Count != nil {
		return strconv.Itoa(*obj.Count)
	}
	return "vários"
}

func (u *slotUsecase) Cancel(ctx context.Context, id string) error {
	if err := u.backend.Delete(ctx, pathAdminSlots+"/"+escapePath(id), nil); err != nil {
		u.log.Warnf("Failed to cancel slot %s: %+v", id, err)
		return err
	}
	u.query.Invalidate(ctx, cache.Key(resAdminSlots), cache.Key(resFreeSlots))
	return nil
}

// ListFree returns a doctor's slots on a date as the patient sees them.
func (u *slotUsecase) ListFree(ctx context.Context, q dto.SlotQuery) ([]entity.Slot, error) {
	if !q.Complete() {
		return nil, nil
	}
	key := cache.Key(resFreeSlots, q.DoctorID, q.Date)
	return cache.Fetch(ctx, u.query, key, ttlList, func(ctx context.Context) ([]entity.Slot, error) {
		params := url.Values{}
		params.Set("data", q.Date)

		var slots []entity.Slot
		if err := u.backend.Get(ctx, pathPatientDoctors+"/"+escapePath(q.DoctorID)+"/slots", params, &slots); err != nil {
			u.log.Warnf("Failed to list free slots: %+v", err)
			return nil, err
		}
		entity.SortSlots(slots)
		return slots, nil
	})
}

// RefreshFree drops the cached free slots of one doctor and date, used after
// the backend reports a slot as already taken.
func (u *slotUsecase) RefreshFree(ctx context.Context, q dto.SlotQuery) {
	u.query.Invalidate(ctx, cache.Key(resFreeSlots, q.DoctorID, q.Date))
}
