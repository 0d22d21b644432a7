package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

const maxErrorBodyBytes = 4096

// Client клиент для работы с внешним бэкендом расписания
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента бэкенда расписания.
// requestsPerSecond <= 0 отключает ограничение частоты запросов.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, burst int, log Logger) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// GetAvailableSlots получает свободные слоты.
// identifier передается бэкенду без изменений, если он задан.
func (c *Client) GetAvailableSlots(ctx context.Context, identifier *string) (*Availability, error) {
	endpoint, err := url.Parse(c.baseURL + "/availability")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build url: %v", ErrInternal, err)
	}
	if identifier != nil && *identifier != "" {
		query := endpoint.Query()
		query.Set("identifier", *identifier)
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	var raw slotsResponse
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	if raw.Success == nil {
		return nil, fmt.Errorf("%w: missing success flag", ErrInvalidResponse)
	}
	if !*raw.Success {
		return nil, &RejectedError{Message: raw.Error}
	}

	availability := &Availability{
		Slots: make(domain.SlotCollection, 0, len(raw.Slots)),
	}
	for i, payload := range raw.Slots {
		slot, err := parseSlot(payload)
		if err != nil {
			c.log.Warn("Scheduler: skipping malformed slot #%d (%+v): %v", i, payload, err)
			continue
		}
		availability.Slots = append(availability.Slots, slot)
	}

	if raw.Config != nil {
		availability.Config = &domain.BackendConfig{
			SlotDurationMinutes: raw.Config.SlotDuration,
			Timezone:            raw.Config.Timezone,
			OwnerName:           raw.Config.OwnerName,
		}
	}

	c.log.Info("Scheduler: fetched %d slots (%d skipped)", len(availability.Slots), len(raw.Slots)-len(availability.Slots))
	return availability, nil
}

// CreateBooking создает бронирование на бэкенде
func (c *Client) CreateBooking(ctx context.Context, booking domain.BookingRequest) (*Confirmation, error) {
	body, err := json.Marshal(bookingPayload{
		Identifier: booking.Identifier,
		Datetime:   booking.Datetime.Format(time.RFC3339),
		Name:       booking.Contact.Name,
		Phone:      booking.Contact.Phone,
		Email:      booking.Contact.Email,
		Note:       booking.Contact.Note,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/booking", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var raw bookingResponse
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	if raw.Success == nil {
		return nil, fmt.Errorf("%w: missing success flag", ErrInvalidResponse)
	}
	if !*raw.Success {
		return nil, &RejectedError{Message: raw.Error}
	}

	confirmation := &Confirmation{
		EventID:     raw.EventID,
		MeetingLink: firstNonEmpty(raw.MeetingLink, raw.MeetLink),
	}
	if confirmation.ConfirmedStart, err = parseOptionalTime(raw.ConfirmedStart, raw.StartTime); err != nil {
		return nil, fmt.Errorf("%w: confirmed start: %v", ErrInvalidResponse, err)
	}
	if confirmation.ConfirmedEnd, err = parseOptionalTime(raw.ConfirmedEnd, raw.EndTime); err != nil {
		return nil, fmt.Errorf("%w: confirmed end: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Scheduler: booking created event_id=%s", confirmation.EventID)
	return confirmation, nil
}

// do выполняет запрос с учетом лимита частоты и декодирует JSON-ответ в out
func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// parseSlot проверяет сырой слот на границе: дата, время и абсолютное время обязательны
func parseSlot(payload slotPayload) (domain.Slot, error) {
	if _, err := time.Parse(domain.DateFormat, payload.Date); err != nil {
		return domain.Slot{}, fmt.Errorf("date: %w", err)
	}
	if _, err := types.NewTimeStringFromString(payload.Time); err != nil {
		return domain.Slot{}, fmt.Errorf("time: %w", err)
	}
	datetime, err := time.Parse(time.RFC3339, payload.Datetime)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("datetime: %w", err)
	}
	return domain.Slot{
		Date:     payload.Date,
		Time:     payload.Time,
		Datetime: datetime,
	}, nil
}

func parseOptionalTime(values ...string) (time.Time, error) {
	for _, v := range values {
		if v == "" {
			continue
		}
		return time.Parse(time.RFC3339, v)
	}
	return time.Time{}, nil
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			s := *v
			return &s
		}
	}
	return nil
}
