package engine

import "github.com/napolitain/rts-core/internal/models"

// Recorder receives simulation counters. It must not mutate the engine.
type Recorder interface {
	TickAdvanced(tick int64, units, liveWork int)
	RequestHandled(request string, status Status)
	WorkFinished(kind WorkKind, cancelled bool)
	ResourcesCredited(player models.PlayerID, amount models.Resources)
}

type nopRecorder struct{}

func (nopRecorder) TickAdvanced(int64, int, int)                        {}
func (nopRecorder) RequestHandled(string, Status)                       {}
func (nopRecorder) WorkFinished(WorkKind, bool)                         {}
func (nopRecorder) ResourcesCredited(models.PlayerID, models.Resources) {}
