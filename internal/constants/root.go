package constants

import (
	"time"
)

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "liftlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/liftlog/liftlog.db"
	Version            = "v0.3.0"

	// DateTimeFormat is used when printing timestamps in CLI output
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "liftlog-"
	BackupFileSuffix = ".db"

	// Notify constants. The desktop tray app is shared with the daylit
	// planner, so its identifiers keep that name.
	NotifierLockfileName   = "daylit-notifier.lock"
	TrayProcessName        = "daylit-tray"
	TraySecretHeader       = "X-Daylit-Secret"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.daylit"
	NotificationChannel    = "workout_timer"
	NotificationPriority   = "high"
	NotificationTitle      = "Timer Finished!"
	FallbackCardLabel      = "your exercise"

	// Worker constants
	WorkerName      = "countdown"
	WorkerRunDir    = "run"
	WorkerLockExt   = ".lock"
	WorkerStopGrace = 2 * time.Second
)

// Session States
const (
	StateWidget SessionState = iota
	StateCards
	StatePlans
	StateSessions
	StateEditCard
	StateEditPlan
	StateConfirmDelete
	StateAlert
)
