package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	loggerKey          = "logger"
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
)

func registerLogging(e *echo.Echo, logger zerolog.Logger) {
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(loggerKey, logger)
			return next(c)
		}
	})

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			sessionID := "anonymous"
			if session, ok := CurrentSession(c); ok {
				sessionID = session.ID
			}

			event := logger.Info()
			if v.Status >= 500 || v.Error != nil {
				event = logger.Error().Err(v.Error)
			}
			event = event.
				Str("session_id", sessionID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Str("remote", v.RemoteIP).
				Str("ua", v.UserAgent)
			if summary := c.Get(requestBodyLogKey); summary != nil {
				event = event.Interface("request_body", summary)
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				event = event.Interface("response_body", summary)
			}
			event.Msg("http request")
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger") || strings.HasPrefix(c.Path(), "/static")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			resType := c.Response().Header().Get(echo.HeaderContentType)
			if strings.HasPrefix(strings.ToLower(resType), echo.MIMEApplicationJSON) {
				if summary := sanitizeBody(resBody, resType); summary != nil {
					c.Set(responseBodyLogKey, summary)
				}
			}
		},
	}))
}

// logFrom returns the request logger, or a no-op logger outside the router.
func logFrom(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(loggerKey).(zerolog.Logger); ok {
		return &logger
	}
	nop := zerolog.Nop()
	return &nop
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "password") || strings.Contains(key, "token")
}

func sanitizeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}

	trimmedType := strings.TrimSpace(contentType)
	loweredType := strings.ToLower(trimmedType)

	switch {
	case strings.HasPrefix(loweredType, "multipart/form-data"):
		return sanitizeMultipart(body, trimmedType)
	case strings.HasPrefix(loweredType, "application/x-www-form-urlencoded"):
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "unparseable form"
		}
		fields := make(map[string]interface{}, len(values))
		for key, vals := range values {
			for _, v := range vals {
				addFormField(fields, key, sanitizeStringValue(v, key))
			}
		}
		return limitJSONSize(fields)
	case strings.HasPrefix(loweredType, "application/json") || json.Valid(body):
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			return limitJSONSize(sanitizeJSON(data, ""))
		}
	}

	if containsBinaryBytes(body) {
		return "binary"
	}
	if strings.Contains(strings.ToLower(string(body)), "password") {
		return "redacted"
	}
	return clampString(string(body))
}

func limitJSONSize(value interface{}) interface{} {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]interface{}{
		"_truncated": true,
		"_bytes":     len(buf),
	}
}

func sanitizeJSON(value interface{}, key string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			result[k] = sanitizeJSON(val, k)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = sanitizeJSON(item, key)
		}
		return result
	case string:
		return sanitizeStringValue(v, key)
	default:
		return v
	}
}

func sanitizeStringValue(value, key string) string {
	if key != "" && sensitiveKey(key) {
		return "redacted"
	}
	if containsBinaryBytes([]byte(value)) {
		return "binary"
	}
	return clampString(value)
}

// sanitizeMultipart keeps text fields and replaces file parts (tour and
// home page images) with their file name.
func sanitizeMultipart(body []byte, contentType string) interface{} {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["boundary"] == "" {
		return "binary"
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	fields := make(map[string]interface{})
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "binary"
		}

		name := part.FormName()
		switch {
		case name == "":
		case part.FileName() != "":
			addFormField(fields, name, "file:"+part.FileName())
		default:
			data, err := io.ReadAll(part)
			if err != nil {
				addFormField(fields, name, "binary")
			} else {
				addFormField(fields, name, sanitizeStringValue(string(data), name))
			}
		}
		_ = part.Close()
	}

	if len(fields) == 0 {
		return "binary"
	}
	return limitJSONSize(fields)
}

func containsBinaryBytes(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}

func addFormField(fields map[string]interface{}, key string, value interface{}) {
	if existing, ok := fields[key]; ok {
		switch items := existing.(type) {
		case []interface{}:
			fields[key] = append(items, value)
		default:
			fields[key] = []interface{}{items, value}
		}
		return
	}
	fields[key] = value
}
