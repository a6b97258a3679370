package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedhub/db"
	"feedhub/feeds"
	"feedhub/models"
	"feedhub/query"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const feedNotFound = "Feed not found"

type handlers struct {
	store        *db.Store
	broadcaster  *Broadcaster
	pingInterval time.Duration
}

func errorBody(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func wantsXML(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Query("format", "json"), "xml")
}

// sendRSS renders feed and writes it with the RSS content type.
func sendRSS(c *fiber.Ctx, feed models.Feed) error {
	data, err := feeds.Render(feed)
	if err != nil {
		return fmt.Errorf("render feed %q: %w", feed.Title, err)
	}
	c.Set(fiber.HeaderContentType, feeds.ContentType)
	return c.Send(data)
}

func (h *handlers) status(c *fiber.Ctx) error {
	return c.JSON(h.store.Status())
}

func (h *handlers) listFeeds(c *fiber.Ctx) error {
	if wantsXML(c) {
		return h.allFeedsXML(c)
	}

	all := h.store.ListFeeds()
	return c.JSON(models.FeedListResponse{
		Count: len(all),
		Feeds: all,
	})
}

func (h *handlers) allFeedsXML(c *fiber.Ctx) error {
	meta := feeds.AllFeedsInfo(h.store.Config().AggregateTitle, c.BaseURL()+"/")
	return sendRSS(c, feeds.Aggregate(meta, h.store.ListFeeds()))
}

func (h *handlers) getFeed(c *fiber.Ctx) error {
	if wantsXML(c) {
		return h.getFeedXML(c)
	}

	feed, ok := h.store.GetFeed(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorBody(feedNotFound))
	}
	return c.JSON(feed)
}

func (h *handlers) getFeedXML(c *fiber.Ctx) error {
	feed, ok := h.store.GetFeed(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorBody(feedNotFound))
	}
	return sendRSS(c, feed)
}

func (h *handlers) searchFeeds(c *fiber.Ctx) error {
	params := c.Queries()
	criteria := query.ParseCriteria(params)
	filtered := h.store.FilterFeeds(criteria)

	log.WithFields(log.Fields{
		"params":  params,
		"matches": len(filtered),
	}).Debug("Search feeds")

	if wantsXML(c) {
		meta := feeds.SearchResultsInfo(c.BaseURL()+c.OriginalURL(), params)
		return sendRSS(c, feeds.Aggregate(meta, filtered))
	}

	return c.JSON(models.SearchResponse{
		Count: len(filtered),
		Query: params,
		Feeds: filtered,
	})
}

func (h *handlers) createFeed(c *fiber.Ctx) error {
	var req feedRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(fmt.Sprintf("Invalid JSON body: %v", err)))
	}

	if missing := req.missingField(); missing != "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("Missing required field: " + missing))
	}

	feedID, err := h.store.CreateFeed(req.spec())
	if errors.Is(err, db.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err.Error()))
	}
	if err != nil {
		return fmt.Errorf("error creating feed: %w", err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateFeedResponse{
		Message: "Feed created successfully",
		FeedID:  feedID,
	})
}

func (h *handlers) addEntry(c *fiber.Ctx) error {
	feedID := c.Params("id")
	if _, ok := h.store.GetFeed(feedID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorBody(feedNotFound))
	}

	var req entryRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(fmt.Sprintf("Invalid JSON body: %v", err)))
	}

	if missing := req.missingField(); missing != "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("Missing required field: " + missing))
	}

	entry, ok, err := h.store.AppendEntry(feedID, req.spec())
	if !ok {
		// Deleted since the check above
		return c.Status(fiber.StatusNotFound).JSON(errorBody(feedNotFound))
	}
	if errors.Is(err, db.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err.Error()))
	}
	if err != nil {
		return fmt.Errorf("error adding entry: %w", err)
	}

	return c.JSON(models.AddEntryResponse{
		Message: "Entry added successfully",
		EntryID: entry.GUID,
	})
}

func (h *handlers) deleteFeed(c *fiber.Ctx) error {
	if !h.store.DeleteFeed(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(errorBody(feedNotFound))
	}
	return c.JSON(models.MessageResponse{Message: "Feed deleted successfully"})
}

// events streams appended entries as Server-Sent Events.
func (h *handlers) events(c *fiber.Ctx) error {
	if h.broadcaster == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Event stream is not enabled")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	// Unique client key
	key := uuid.New().String()
	events := make(chan models.EntryEvent, 10)
	feedFilter := strings.Clone(c.Query("feed"))

	h.broadcaster.AddClient(key, events)
	sseClients.Inc()

	pingInterval := h.pingInterval

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		alive := time.NewTicker(pingInterval)
		defer alive.Stop()
		defer func() {
			log.Infof("Cleaning up SSE stream for client: %s", key)
			h.broadcaster.RemoveClient(key)
			sseClients.Dec()
		}()

		// Send initial event with client key
		fmt.Fprintf(w, "event: init\ndata: %s\n\n", key)
		if err := w.Flush(); err != nil {
			log.Errorf("Failed to send init event: %v", err)
			return
		}

		for {
			select {
			case <-alive.C:
				if _, err := fmt.Fprintf(w, "event: ping\ndata: \n\n"); err != nil {
					log.Warnf("Failed to send ping to client %s: %v", key, err)
					return
				}
				if err := w.Flush(); err != nil {
					log.Warnf("Failed to flush ping for client %s: %v", key, err)
					return
				}

			case event, ok := <-events:
				if !ok {
					log.Warnf("Event channel closed for client %s", key)
					return
				}
				if feedFilter != "" && event.FeedID != feedFilter {
					continue
				}
				if err := writeEvent(w, "entry-added", event); err != nil {
					log.Warnf("Failed to send entry-added event to client %s: %v", key, err)
					return
				}
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
