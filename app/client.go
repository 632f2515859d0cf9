package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/azatkg/lounge/config"
)

// errDaemonUnreachable distinguishes "the daemon is not running" from an
// operation the daemon rejected, so read-only commands can fall back to the
// database.
var errDaemonUnreachable = errors.New(
	"unable to reach the lounge daemon: is it running? (lounge serve)",
)

func newAPIClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}

	err := json.NewDecoder(resp.Body).Decode(&body)
	if err != nil || body.Error == "" {
		return fmt.Errorf("request failed with status %s", resp.Status)
	}

	return errors.New(body.Error)
}

func apiGet(cfg *config.LoungeConfig, path string, v any) error {
	resp, err := newAPIClient().Get("http://" + cfg.ListenAddr + path)
	if err != nil {
		return errDaemonUnreachable
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func apiPost(cfg *config.LoungeConfig, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := newAPIClient().Post(
		"http://"+cfg.ListenAddr+path,
		"application/json",
		bytes.NewReader(b),
	)
	if err != nil {
		return errDaemonUnreachable
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return nil
}
