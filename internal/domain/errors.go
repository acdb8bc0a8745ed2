package domain

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrBackupMissing     = errors.New("no pristine backup found: reset the game data and run backup again")
	ErrContainerNotFound = errors.New("pak container directory not found")
	ErrModFilesMissing   = errors.New("mod files missing on disk")
	ErrDeclined          = errors.New("backup declined")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
