// Package moodle implements the remote LMS gateway over Moodle's REST
// web-service protocol: form-encoded requests against a single endpoint,
// dispatched by wsfunction, authenticated by a web-service token.
package moodle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avillagarcia/academia/internal/enrollment/ports"
)

// DefaultStudentRoleID is Moodle's built-in student role.
const DefaultStudentRoleID = 5

// Client talks to a Moodle instance. All calls share a fixed timeout and
// convert transport or remote-side failures into wrapped errors; the
// client never retries.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient constructs a client for the given web-service endpoint.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// wsError is the payload Moodle returns instead of the expected shape
// when a call fails on the remote side.
type wsError struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

func (e *wsError) isError() bool {
	return e != nil && (e.Exception != "" || e.ErrorCode != "")
}

func (c *Client) call(ctx context.Context, wsfunction string, params url.Values) ([]byte, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("moodle client not configured")
	}

	form := url.Values{}
	form.Set("wstoken", c.token)
	form.Set("wsfunction", wsfunction)
	form.Set("moodlewsrestformat", "json")
	for key, values := range params {
		for _, v := range values {
			form.Add(key, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do request: %w", wsfunction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %d", wsfunction, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", wsfunction, err)
	}

	// Moodle reports failures with HTTP 200 and an exception payload.
	var werr wsError
	if err := json.Unmarshal(body, &werr); err == nil && werr.isError() {
		return nil, fmt.Errorf("%s: %s: %s", wsfunction, werr.ErrorCode, werr.Message)
	}

	return body, nil
}

// FindUserByEmail looks an account up by exact email match. Returns
// (nil, nil) when no account matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*ports.LMSUser, error) {
	params := url.Values{}
	params.Set("criteria[0][key]", "email")
	params.Set("criteria[0][value]", email)

	body, err := c.call(ctx, "core_user_get_users", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Users []struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("core_user_get_users: decode response: %w", err)
	}

	if len(payload.Users) == 0 {
		return nil, nil
	}
	return &ports.LMSUser{ID: payload.Users[0].ID, Username: payload.Users[0].Username}, nil
}

// CreateUser provisions a new account.
func (c *Client) CreateUser(ctx context.Context, user ports.NewLMSUser) (*ports.LMSUser, error) {
	params := url.Values{}
	params.Set("users[0][username]", user.Username)
	params.Set("users[0][firstname]", user.FirstName)
	params.Set("users[0][lastname]", user.LastName)
	params.Set("users[0][email]", user.Email)
	params.Set("users[0][password]", user.Password)

	body, err := c.call(ctx, "core_user_create_users", params)
	if err != nil {
		return nil, err
	}

	var created []struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("core_user_create_users: decode response: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("core_user_create_users: empty response")
	}

	return &ports.LMSUser{ID: created[0].ID, Username: created[0].Username}, nil
}

// EnrollUser enrols the user into the course under the given role.
// Moodle's manual enrolment returns no identifier, so the returned
// enrollment id is always empty on success.
func (c *Client) EnrollUser(ctx context.Context, userID int64, moodleCourseID string, roleID int) (string, error) {
	if moodleCourseID == "" {
		return "", fmt.Errorf("enrol_manual_enrol_users: missing course id")
	}
	if roleID <= 0 {
		roleID = DefaultStudentRoleID
	}

	params := url.Values{}
	params.Set("enrolments[0][roleid]", strconv.Itoa(roleID))
	params.Set("enrolments[0][userid]", strconv.FormatInt(userID, 10))
	params.Set("enrolments[0][courseid]", moodleCourseID)

	if _, err := c.call(ctx, "enrol_manual_enrol_users", params); err != nil {
		return "", err
	}
	return "", nil
}
