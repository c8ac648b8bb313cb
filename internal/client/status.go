package client

import (
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/models"
)

// engineStatus answers the local API's inspection and credential calls
// from the running components.
type engineStatus struct {
	dir       *directory.Directory
	scheduler schedulerView
	cycles    cycleView
	unacked   unackedView
	conn      connectionView
}

func (s *engineStatus) SchedulerStatus() scheduler.Status {
	return s.scheduler.Status()
}

func (s *engineStatus) LastCycle() syncer.CycleStatus {
	return s.cycles.LastStatus()
}

func (s *engineStatus) UnackedInvalidations() []invalidation.UnackedState {
	return s.unacked.Snapshot()
}

func (s *engineStatus) DirtyCount() int {
	return s.dir.DirtyCount()
}

func (s *engineStatus) Connected() bool {
	return s.conn.IsConnected()
}

// Entries walks the directory in metahandle order.
func (s *engineStatus) Entries(t models.ModelType) []directory.EntryKernel {
	var out []directory.EntryKernel
	_ = s.dir.Read(func(tx *directory.ReadTransaction) error {
		for _, h := range tx.GetAllMetaHandles() {
			e := tx.GetByHandle(h)
			if !e.Good() {
				continue
			}
			k := e.Kernel()
			if t == models.Unspecified || k.ModelType() == t {
				out = append(out, k)
			}
		}
		return nil
	})
	return out
}

// UpdateCredentials installs token on the transport and lets the scheduler
// retry work that waited for credentials.
func (s *engineStatus) UpdateCredentials(token string) {
	s.conn.SetToken(token)
	s.scheduler.OnCredentialsUpdated()
}
