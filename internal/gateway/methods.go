package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/notification"
)

// methodError carries a protocol error code alongside the message.
type methodError struct {
	code    string
	message string
}

func (e *methodError) Error() string { return e.message }

func errInvalidParams(err error) error {
	return &methodError{code: "INVALID_PARAMS", message: fmt.Sprintf("invalid params: %v", err)}
}

// dispatch routes one req frame to the bridge module. Method names are the
// inbound call surface, verbatim.
func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "configure":
		var p struct {
			WebsiteID string `json:"websiteId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.Configure(p.WebsiteID)

	case "setTokenId":
		var p struct {
			TokenID string `json:"tokenId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetTokenID(p.TokenID)

	case "setLogLevel":
		var p struct {
			Level int `json:"level"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		s.Module.SetLogLevel(p.Level)
		return nil, nil

	case "setUserEmail":
		var p struct {
			Email     string `json:"email"`
			Signature string `json:"signature"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetUserEmail(p.Email, p.Signature)

	case "setUserNickname":
		var p struct {
			Nickname string `json:"nickname"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetUserNickname(p.Nickname)

	case "setUserPhone":
		var p struct {
			Phone string `json:"phone"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetUserPhone(p.Phone)

	case "setUserCompany":
		var company map[string]any
		if err := json.Unmarshal(params, &company); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetUserCompany(company)

	case "setUserAvatar":
		var p struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetUserAvatar(p.URL)

	case "setSessionString":
		var p struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetSessionString(p.Key, p.Value)

	case "setSessionBool":
		var p struct {
			Key   string `json:"key"`
			Value bool   `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetSessionBool(p.Key, p.Value)

	case "setSessionInt":
		var p struct {
			Key   string `json:"key"`
			Value int    `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetSessionInt(p.Key, p.Value)

	case "setSessionSegment":
		var p struct {
			Segment string `json:"segment"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetSessionSegment(p.Segment)

	case "setSessionSegments":
		var p struct {
			Segments  []string `json:"segments"`
			Overwrite bool     `json:"overwrite"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.SetSessionSegments(p.Segments, p.Overwrite)

	case "getSessionIdentifier":
		id, err := s.Module.SessionIdentifier(ctx)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return map[string]any{"sessionId": nil}, nil
		}
		return map[string]any{"sessionId": id}, nil

	case "pushSessionEvent":
		var p struct {
			Name  string `json:"name"`
			Color int    `json:"color"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.PushSessionEvent(p.Name, p.Color)

	case "pushSessionEvents":
		var p struct {
			Events []map[string]any `json:"events"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.PushSessionEvents(p.Events)

	case "resetSession":
		return nil, s.Module.ResetSession()

	case "show":
		return nil, s.Module.Show()

	case "searchHelpdesk":
		return nil, s.Module.SearchHelpdesk()

	case "openHelpdeskArticle":
		var p struct {
			ID       string `json:"id"`
			Locale   string `json:"locale"`
			Title    string `json:"title"`
			Category string `json:"category"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.OpenHelpdeskArticle(p.ID, p.Locale, p.Title, p.Category)

	case "runBotScenario":
		var p struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.RunBotScenario(p.ID)

	case "showMessage":
		var payload map[string]any
		if err := json.Unmarshal(params, &payload); err != nil {
			return nil, errInvalidParams(err)
		}
		return nil, s.Module.ShowMessage(payload)

	case "registerPushToken":
		var p struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return s.Module.RegisterPushToken(p.Token), nil

	case "unregisterPushToken":
		return s.Module.UnregisterPushToken(), nil

	case "getNotificationStatus":
		return s.Module.NotificationStatus(), nil

	case "isCrispNotification":
		var payload map[string]any
		if err := json.Unmarshal(params, &payload); err != nil {
			return nil, errInvalidParams(err)
		}
		return map[string]any{"isCrispNotification": s.Module.IsVendorNotification(payload)}, nil

	case "handleNotification":
		var p struct {
			Notification map[string]any       `json:"notification"`
			Options      notification.Options `json:"options"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, errInvalidParams(err)
		}
		return s.Module.HandleNotification(p.Notification, p.Options), nil

	default:
		return nil, &methodError{code: "UNKNOWN_METHOD", message: "unknown method: " + method}
	}
}

// errorCode maps an operation error onto a protocol code. Decode failures
// keep their field-naming detail so callers can show a precise message.
func errorCode(err error) string {
	var me *methodError
	if errors.As(err, &me) {
		return me.code
	}
	var de *content.DecodeError
	if errors.As(err, &de) {
		switch de.Kind {
		case content.KindMissingField:
			return "MISSING_FIELD"
		case content.KindUnknownType:
			return "UNKNOWN_TYPE"
		}
	}
	return "ERROR"
}
