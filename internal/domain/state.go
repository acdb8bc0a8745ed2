package domain

// ApplyState tracks a pipeline run through its phases. Failed is always
// recoverable by re-running apply from BackupVerified: the restore (or purge)
// step runs first, so no half-applied state survives.
type ApplyState int

const (
	StateIdle ApplyState = iota
	StateBackupVerified
	StateModsScanned
	StateNoChangeNeeded
	StateApplying
	StateApplied
	StateFailed
)

func (s ApplyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBackupVerified:
		return "backup-verified"
	case StateModsScanned:
		return "mods-scanned"
	case StateNoChangeNeeded:
		return "no-change-needed"
	case StateApplying:
		return "applying"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
