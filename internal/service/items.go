package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

type itemService struct {
	dir       *directory.Directory
	nudger    Nudger
	decrypter SpecificsDecrypter
	defaults  *DefaultValues
	logger    *logger.Logger
}

func NewItemService(dir *directory.Directory, nudger Nudger, decrypter SpecificsDecrypter, defaults *DefaultValues, logger *logger.Logger) ItemService {
	return &itemService{dir: dir, nudger: nudger, decrypter: decrypter, defaults: defaults, logger: logger}
}

func (s *itemService) Create(ctx context.Context, req models.CreateItemRequest) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	if err := validateWritableType(req.Type); err != nil {
		return models.Item{}, err
	}
	if req.Folder && !req.Type.IsHierarchical() {
		return models.Item{}, fmt.Errorf("%w: %s has no folders", ErrInvalidDataProvided, req.Type)
	}
	if len(req.Data) > 0 && !json.Valid(req.Data) {
		return models.Item{}, fmt.Errorf("%w: data is not valid json", ErrInvalidDataProvided)
	}

	specifics := models.NewSpecifics(req.Type, req.Data)
	if s.defaults != nil {
		s.defaults.AddDefaultFieldValue(req.Type, &specifics)
	}

	var created directory.EntryKernel
	err := s.dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		parent, err := resolveParent(tx, req.Type, req.ParentID)
		if err != nil {
			return err
		}
		if req.ClientTag != "" && tx.GetByClientTag(req.ClientTag).Good() {
			return fmt.Errorf("%w: %q", ErrDuplicateClientTag, req.ClientTag)
		}

		e := tx.CreateEntry(req.Type, parent, req.Name)
		e.PutIsDir(req.Folder)
		e.PutSpecifics(specifics)
		if err = e.PutUniqueClientTag(req.ClientTag); err != nil {
			return fmt.Errorf("%w: %w", ErrDuplicateClientTag, err)
		}
		e.PutIsUnsynced(true)
		created = e.Kernel()
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*itemService.Create").Str("type", req.Type.String()).Msg("create item failed")
		return models.Item{}, err
	}

	s.nudger.ScheduleLocalNudge(models.NewModelTypeSet(req.Type))
	return s.toItem(created), nil
}

func (s *itemService) Update(ctx context.Context, id string, req models.UpdateItemRequest) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	if req.Name == nil && req.Data == nil {
		return models.Item{}, fmt.Errorf("%w: nothing to update", ErrInvalidDataProvided)
	}
	if len(req.Data) > 0 && !json.Valid(req.Data) {
		return models.Item{}, fmt.Errorf("%w: data is not valid json", ErrInvalidDataProvided)
	}

	var updated directory.EntryKernel
	err := s.dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		e, err := mutableItem(tx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			e.PutNonUniqueName(*req.Name)
		}
		if req.Data != nil {
			e.PutSpecifics(models.NewSpecifics(e.ModelType(), req.Data))
		}
		e.PutMtime(time.Now().UnixMilli())
		e.PutIsUnsynced(true)
		updated = e.Kernel()
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*itemService.Update").Str("id", id).Msg("update item failed")
		return models.Item{}, err
	}

	s.nudger.ScheduleLocalNudge(models.NewModelTypeSet(updated.ModelType()))
	return s.toItem(updated), nil
}

func (s *itemService) Move(ctx context.Context, id string, req models.MoveItemRequest) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}

	var moved directory.EntryKernel
	err := s.dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		e, err := mutableItem(tx, id)
		if err != nil {
			return err
		}
		t := e.ModelType()

		parent, err := resolveParent(tx, t, req.ParentID)
		if err != nil {
			return err
		}
		if !tx.IsLegalNewParent(e.ID(), parent) {
			return fmt.Errorf("%w: %s under %s", ErrIllegalMove, id, parent)
		}

		pred := directory.IDFromString(req.PredecessorID)
		if !pred.IsNull() {
			p := tx.GetByID(pred)
			if !p.Good() || p.IsDel() || p.ParentID() != parent || p.ID() == e.ID() {
				return fmt.Errorf("%w: predecessor %s", ErrInvalidParent, req.PredecessorID)
			}
		}

		if e.ParentID() != parent {
			if err = e.PutParentID(parent); err != nil {
				return err
			}
		}
		if err = e.PutPredecessor(pred); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParent, err)
		}
		e.PutMtime(time.Now().UnixMilli())
		e.PutIsUnsynced(true)
		moved = e.Kernel()
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*itemService.Move").Str("id", id).Msg("move item failed")
		return models.Item{}, err
	}

	s.nudger.ScheduleLocalNudge(models.NewModelTypeSet(moved.ModelType()))
	return s.toItem(moved), nil
}

// Delete turns the item into an unsynced tombstone. Folders must be
// emptied first.
func (s *itemService) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var t models.ModelType
	err := s.dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		e, err := mutableItem(tx, id)
		if err != nil {
			return err
		}
		if e.IsDir() && tx.HasChildren(e.ID()) {
			return fmt.Errorf("%w: %s", ErrFolderNotEmpty, id)
		}

		t = e.ModelType()
		e.PutIsDel(true)
		e.PutMtime(time.Now().UnixMilli())
		e.PutIsUnsynced(true)
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*itemService.Delete").Str("id", id).Msg("delete item failed")
		return err
	}

	s.nudger.ScheduleLocalNudge(models.NewModelTypeSet(t))
	return nil
}

func (s *itemService) Get(ctx context.Context, id string) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}

	var k directory.EntryKernel
	err := s.dir.Read(func(tx *directory.ReadTransaction) error {
		e := tx.GetByID(directory.IDFromString(id))
		if !e.Good() || e.IsDel() || e.UniqueServerTag() != "" {
			return fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		k = e.Kernel()
		return nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return s.toItem(k), nil
}

// List returns the live items of t in tree order: every folder is followed
// by its children.
func (s *itemService) List(ctx context.Context, t models.ModelType) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !t.IsReal() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	var kernels []directory.EntryKernel
	err := s.dir.Read(func(tx *directory.ReadTransaction) error {
		root := tx.GetTypeRoot(t)
		if !root.Good() {
			return fmt.Errorf("%w: %s", ErrTypeNotReady, t)
		}

		var walk func(parent directory.ID)
		walk = func(parent directory.ID) {
			for _, h := range tx.GetChildHandles(parent) {
				e := tx.GetByHandle(h)
				if !e.Good() || e.IsDel() {
					continue
				}
				kernels = append(kernels, e.Kernel())
				if e.IsDir() {
					walk(e.ID())
				}
			}
		}
		walk(root.ID())
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(kernels))
	for _, k := range kernels {
		items = append(items, s.toItem(k))
	}
	return items, nil
}

func (s *itemService) RequestRefresh(types models.ModelTypeSet) {
	s.nudger.ScheduleLocalRefreshRequest(types.Intersection(models.UserTypes()))
}

func (s *itemService) toItem(k directory.EntryKernel) models.Item {
	return itemFromKernel(k, s.decrypter, s.logger)
}

// itemFromKernel converts a kernel snapshot. It runs outside directory
// transactions so decryption never waits on the directory lock.
func itemFromKernel(k directory.EntryKernel, decrypter SpecificsDecrypter, log *logger.Logger) models.Item {
	item := kernelToItem(k)

	specifics := k.Specifics
	if specifics.IsEncrypted() && decrypter != nil {
		plain, err := decrypter.DecryptSpecifics(specifics)
		if err != nil {
			log.Debug().Err(err).Str("func", "service.itemFromKernel").Str("id", item.ID).Msg("payload not decryptable yet")
		} else {
			specifics = plain
		}
	}
	if specifics.IsEncrypted() {
		item.Undecryptable = true
		return item
	}
	if len(specifics.Data) > 0 {
		item.Data = append(json.RawMessage(nil), specifics.Data...)
	}
	return item
}

func kernelToItem(k directory.EntryKernel) models.Item {
	return models.Item{
		ID:        k.ID.String(),
		ParentID:  k.ParentID.String(),
		Type:      k.ModelType(),
		Name:      k.NonUniqueName,
		Folder:    k.IsDir,
		ClientTag: k.UniqueClientTag,
		Version:   k.BaseVersion,
		Unsynced:  k.IsUnsynced,
		Mtime:     k.Mtime,
	}
}

func validateWritableType(t models.ModelType) error {
	if !t.IsReal() || models.ControlTypes().Has(t) {
		return fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return nil
}

// resolveParent returns the folder an item of t goes under. An empty
// parent means the type root.
func resolveParent(tx *directory.WriteTransaction, t models.ModelType, parentID string) (directory.ID, error) {
	root := tx.GetTypeRoot(t)
	if !root.Good() {
		return "", fmt.Errorf("%w: %s", ErrTypeNotReady, t)
	}
	if parentID == "" {
		return root.ID(), nil
	}

	p := tx.GetByID(directory.IDFromString(parentID))
	if !p.Good() || p.IsDel() || !p.IsDir() || p.ModelType() != t {
		return "", fmt.Errorf("%w: %s", ErrInvalidParent, parentID)
	}
	if p.ID() != root.ID() && !t.IsHierarchical() {
		return "", fmt.Errorf("%w: %s items live under the root folder", ErrInvalidParent, t)
	}
	return p.ID(), nil
}

// mutableItem looks up a live, user-owned item.
func mutableItem(tx *directory.WriteTransaction, id string) (*directory.MutableEntry, error) {
	e := tx.GetMutableByID(directory.IDFromString(id))
	if !e.Good() || e.IsDel() {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if e.UniqueServerTag() != "" {
		return nil, fmt.Errorf("%w: %s", ErrPermanentItem, id)
	}
	if validateWritableType(e.ModelType()) != nil {
		return nil, fmt.Errorf("%w: %s", ErrPermanentItem, id)
	}
	return e, nil
}
