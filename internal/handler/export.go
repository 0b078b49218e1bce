package handler

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/tubestats/internal/middleware"
	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/service"
)

// utf8BOM lets spreadsheet software detect the encoding of non-ASCII titles.
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"video_id", "title", "channel_title", "published_at", "weekday", "publish_hour",
	"duration_minutes", "views", "likes", "comments", "views_per_day", "max_watch_minutes", "url",
}

type ExportHandler struct {
	svc        *service.AnalysisService
	defaultMax int
}

func NewExportHandler(svc *service.AnalysisService, defaultMax int) *ExportHandler {
	return &ExportHandler{svc: svc, defaultMax: defaultMax}
}

// KeywordCSV handles GET /api/keywords/analysis.csv?q=&max=
func (h *ExportHandler) KeywordCSV(c fiber.Ctx) error {
	query, errMsg := middleware.ValidateQuery(c.Query("q"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), h.defaultMax)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.AnalyzeKeyword(c.Context(), query, maxResults)
	if err != nil {
		return writeServiceError(c, err)
	}
	return sendCSV(c, "youtube_keyword_"+query+".csv", append(res.Videos, res.Undated...))
}

// ChannelCSV handles GET /api/channels/:channelId/analysis.csv?max=
func (h *ExportHandler) ChannelCSV(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), h.defaultMax)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.AnalyzeChannel(c.Context(), channelID, maxResults)
	if err != nil {
		return writeServiceError(c, err)
	}
	name := res.Channel.Title
	if name == "" {
		name = channelID
	}
	return sendCSV(c, "youtube_channel_"+name+".csv", append(res.Videos, res.Undated...))
}

func sendCSV(c fiber.Ctx, filename string, videos []model.VideoRecord) error {
	var buf bytes.Buffer
	if err := WriteVideosCSV(&buf, videos); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build CSV")
	}
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", contentDisposition(filename))
	return c.Send(buf.Bytes())
}

// contentDisposition emits an ASCII fallback name plus the RFC 5987 UTF-8
// form, so Hangul channel titles survive the download.
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 || r == '"' || r == '\\' || r == '/' {
			return '_'
		}
		return r
	}, filename)
	return `attachment; filename="` + ascii + `"; filename*=UTF-8''` + url.PathEscape(filename)
}

// WriteVideosCSV writes one row per video, prefixed with a UTF-8 BOM.
// Age-based columns are left blank for undated records.
func WriteVideosCSV(w io.Writer, videos []model.VideoRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range videos {
		weekday, hour, vpd := "", "", ""
		if v.Derived {
			weekday = v.WeekdayLabel
			hour = strconv.Itoa(v.PublishHour)
			vpd = formatFloat(v.ViewsPerDay)
		}
		published := ""
		if v.PublishedAt.Valid {
			published = v.PublishedAt.String()
		}
		row := []string{
			v.VideoID,
			v.Title,
			v.ChannelTitle,
			published,
			weekday,
			hour,
			formatFloat(v.DurationMinutes),
			strconv.FormatInt(v.Views, 10),
			strconv.FormatInt(v.Likes, 10),
			strconv.FormatInt(v.Comments, 10),
			vpd,
			formatFloat(v.MaxWatchMinutes),
			"https://www.youtube.com/watch?v=" + v.VideoID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
