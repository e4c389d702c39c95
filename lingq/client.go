package lingq

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ClientVersion is sent with every request as the web client's version. LingQ
// rejects clients it considers too old, which shows up as 403s or validation
// errors rather than anything useful. Update it from the web app's requests
// (developer tools) when that starts happening.
const ClientVersion = "5.11.6"

const (
	defaultHost    = "https://www.lingq.com"
	csrfCookie     = "csrftoken"
	sessionCookie  = "wwwlingqcomsa"
	csrfHeader     = "X-CSRFToken"
	clientName     = "web"
	acceptLanguage = "en-US,en;q=0.9"
)

// Session is the set of credentials and the lesson a Client is pointed at.
type Session struct {
	LanguageCode string
	LessonID     int
	CSRFToken    string
	SessionID    string
}

// Client talks to the private API used by the LingQ web app. It authenticates
// with the cookies of a logged-in browser session.
//
// A Client is not safe for concurrent use: the current lesson is mutable and
// most operations are scoped to it. Use one Client per goroutine.
type Client struct {
	session   Session
	endpoints endpoints
	common    map[string]string
	client    *resty.Client
	log       logrus.FieldLogger
}

type Option func(*Client)

// WithHost points the client somewhere other than www.lingq.com.
func WithHost(host string) Option {
	return func(c *Client) {
		c.endpoints = endpoints{host: strings.TrimSuffix(host, "/")}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = resty.NewWithClient(hc)
	}
}

func NewClient(languageCode string, lessonID int, csrfToken, sessionID string, opts ...Option) *Client {
	c := &Client{
		session: Session{
			LanguageCode: languageCode,
			LessonID:     lessonID,
			CSRFToken:    csrfToken,
			SessionID:    sessionID,
		},
		endpoints: endpoints{host: defaultHost},
		client:    resty.New(),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client.
		SetDebug(viper.GetBool("lingq.http_debug")).
		SetLogger(c.log)
	c.common = c.commonHeaders()

	return c
}

func (c *Client) Session() Session {
	return c.session
}

func (c *Client) LessonID() int {
	return c.session.LessonID
}

// SetLesson changes the lesson that lesson-scoped operations act on.
func (c *Client) SetLesson(id int) {
	c.session.LessonID = id
}

func (c *Client) commonHeaders() map[string]string {
	return map[string]string{
		"Accept":           "application/json, text/plain, */*",
		"Accept-Language":  acceptLanguage,
		"X-Client-Name":    clientName,
		"X-Client-Version": ClientVersion,
		"Referer":          c.endpoints.referer(c.session.LanguageCode),
	}
}

type HeaderOptions struct {
	IsPost      bool
	IncludeCSRF bool
}

// BuildHeaders returns the headers for a single request. The session cookie
// and CSRF cookie are always sent; mutating endpoints also want the token
// repeated in X-CSRFToken.
func (c *Client) BuildHeaders(opts HeaderOptions) map[string]string {
	headers := make(map[string]string, len(c.common)+3)
	for k, v := range c.common {
		headers[k] = v
	}

	headers["Cookie"] = fmt.Sprintf("%s=%s; %s=%s", csrfCookie, c.session.CSRFToken, sessionCookie, c.session.SessionID)
	if opts.IsPost {
		headers["Content-Type"] = "application/json"
	}
	if opts.IncludeCSRF {
		headers[csrfHeader] = c.session.CSRFToken
	}

	return headers
}

func (c *Client) newAPIRequest(ctx context.Context, opts HeaderOptions) *resty.Request {
	return c.client.R().
		SetContext(ctx).
		SetHeaders(c.BuildHeaders(opts))
}

// Response is the undecoded result of calls whose body carries nothing worth
// typing. Callers decide what a non-2xx status means.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// do sends the request and turns transport errors into wrapped errors. It does
// not look at the status code.
func (c *Client) do(operation string, req *resty.Request, method, url string) (*resty.Response, error) {
	log := c.log.WithFields(logrus.Fields{
		"operation": operation,
		"method":    method,
		"url":       url,
	})
	log.Debug("Sending request to LingQ API")

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: making API request", operation)
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode(),
		"response": resp.String(),
	}).Debug("Got response from LingQ API")

	return resp, nil
}

// call sends the request, maps a non-2xx status to an *APIError of the given
// kind and validates the body against schema before decoding it into result.
func (c *Client) call(operation string, kind error, req *resty.Request, method, url string, schema *shape, result interface{}) error {
	resp, err := c.do(operation, req, method, url)
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return newAPIError(operation, kind, resp)
	}

	return decode(operation, schema, resp.Body(), result)
}

// callRaw is call for endpoints whose body is not worth typing. A non-empty
// body still has to be JSON.
func (c *Client) callRaw(operation string, req *resty.Request, method, url string) (*Response, error) {
	resp, err := c.do(operation, req, method, url)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(operation, ErrRequestFailed, resp)
	}

	if len(bytes.TrimSpace(resp.Body())) > 0 {
		if err := decode(operation, nil, resp.Body(), nil); err != nil {
			return nil, err
		}
	}

	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

func (c *Client) requireLesson(operation string) error {
	if c.session.LessonID <= 0 {
		return errors.Wrap(ErrNoLesson, operation)
	}

	return nil
}

func checkIndex(operation string, index int) error {
	if index < 1 {
		return errors.Wrapf(ErrInvalidIndex, "%s: index %d", operation, index)
	}

	return nil
}
