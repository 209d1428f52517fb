package constants

const (
	// Timer state keys
	KeyRunning          = "running"
	KeyRemainingSeconds = "remaining_seconds"
	KeySelectedSeconds  = "selected_seconds"
	KeyCurrentCardIndex = "current_card_index"
	KeyTimerStartTime   = "timer_start_time"
	KeyRevision         = "revision"

	// Config keys
	ConfigTimerTick             = "timer.tick"
	ConfigTimerRedrawEvery      = "timer.redraw_every"
	ConfigTimerRedrawBelow      = "timer.redraw_below"
	ConfigTimerThreshold        = "timer.threshold"
	ConfigNotificationsEnabled  = "notifications.enabled"
	ConfigNotificationsFallback = "notifications.fallback_label"
	ConfigWorkerName            = "worker.name"
	ConfigLogDebug              = "log.debug"
	ConfigLogLevel              = "log.level"

	// Environment
	EnvPrefix       = "LIFTLOG"
	EnvDBConnection = "LIFTLOG_DB_CONNECTION"
)
