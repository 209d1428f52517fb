package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"
	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when the desktop tray app cannot be reached
var ErrTrayNotRunning = errors.New("tray app is not running")

// Notification is a user-visible alert. Timer completions use the
// workout_timer channel at high priority.
type Notification struct {
	Channel  string
	Priority string
	Title    string
	Body     string
}

// TimerFinished builds the completion alert for the named card
func TimerFinished(cardName string) Notification {
	if strings.TrimSpace(cardName) == "" {
		cardName = constants.FallbackCardLabel
	}
	return Notification{
		Channel:  constants.NotificationChannel,
		Priority: constants.NotificationPriority,
		Title:    constants.NotificationTitle,
		Body:     fmt.Sprintf("Rest is over for %s.", cardName),
	}
}

// Notifier delivers a notification somewhere the user will see it
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type WebhookPayload struct {
	Text       string `json:"text"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	Priority   string `json:"priority"`
	DurationMs uint32 `json:"duration_ms"`
}

// TrayNotifier posts notifications to the desktop tray app's loopback webhook
type TrayNotifier struct {
	client *http.Client
}

func New() *TrayNotifier {
	return &TrayNotifier{client: &http.Client{Timeout: 5 * time.Second}}
}

func (n *TrayNotifier) Notify(ctx context.Context, note Notification) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       note.Body,
		Title:      note.Title,
		Channel:    note.Channel,
		Priority:   note.Priority,
		DurationMs: constants.NotificationDurationMs,
	}
	return n.send(ctx, port, secret, payload)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may point the lockfile somewhere else
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads a port|pid|secret lockfile and checks the
// pid belongs to a live tray process
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}

	if !strings.HasPrefix(process.Executable(), constants.TrayProcessName) {
		return "", "", fmt.Errorf("process with PID %d is not the tray app (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func (n *TrayNotifier) send(ctx context.Context, port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

// TerminalNotifier logs the notification and rings the terminal bell
type TerminalNotifier struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

func (t *TerminalNotifier) Notify(_ context.Context, note Notification) error {
	logger.Info(note.Title, "body", note.Body, "channel", note.Channel, "priority", note.Priority)
	if t.out == nil {
		return nil
	}
	_, err := fmt.Fprintf(t.out, "\a%s %s\n", note.Title, note.Body)
	return err
}

// Chain tries each notifier in order and stops at the first success
type Chain []Notifier

func (c Chain) Notify(ctx context.Context, note Notification) error {
	var errs error
	for _, n := range c {
		err := n.Notify(ctx, note)
		if err == nil {
			return nil
		}
		logger.Debug("Notifier failed, trying next", "error", err)
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Disabled drops every notification
type Disabled struct{}

func (Disabled) Notify(context.Context, Notification) error { return nil }
