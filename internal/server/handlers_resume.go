package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

// uploadField is the multipart field carrying the resume.
const uploadField = "file"

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temp files.
const multipartMemory = 8 << 20

// uploadResponse is the data of a successful upload or parsed-data lookup.
type uploadResponse struct {
	Message       string              `json:"message"`
	ParsedData    map[string]any      `json:"parsed_data"`
	ParsingMethod types.ParsingMethod `json:"parsing_method"`
	FileName      string              `json:"filename,omitempty"`
	UploadedAt    *time.Time          `json:"uploaded_at,omitempty"`
}

// handleUpload handles POST /resume/upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{})
		return
	}

	if r.ContentLength > s.maxUploadBytes {
		s.writeError(w, r, &ErrPayloadTooLarge{Limit: s.maxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	data, fileName, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	text, err := s.extractor.ExtractText(r.Context(), data)
	if err != nil {
		s.logger.Warn("pdf text extraction failed", "file", fileName, "error", err)
	}
	text = pdftext.CleanText(text)
	if text == "" {
		s.writeError(w, r, &ErrValidation{Message: "Could not extract text from PDF"})
		return
	}

	result, err := s.parser.Parse(r.Context(), text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	upload := &db.ResumeUpload{
		UserID:        userID,
		FileName:      fileName,
		SizeBytes:     int64(len(data)),
		ParsedData:    result.Raw,
		Normalized:    result.Profile,
		ParsingMethod: result.Method,
	}
	if _, err := s.store.SaveResumeUpload(r.Context(), upload); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to save resume upload: %w", err))
		return
	}

	s.logger.Info("resume parsed",
		"user_id", userID,
		"upload_id", upload.ID,
		"parsing_method", result.Method,
		"skills", len(result.Profile.Skills),
	)

	s.successResponse(w, uploadResponse{
		Message:       uploadMessage(result.Method, len(result.Profile.Skills)),
		ParsedData:    result.Raw,
		ParsingMethod: result.Method,
	})
}

// readUpload returns the bytes and file name of the uploaded PDF. The file
// must have a .pdf extension and sniff as application/pdf.
func (s *Server) readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, "", &ErrPayloadTooLarge{Limit: s.maxUploadBytes}
		}
		return nil, "", &ErrValidation{Field: uploadField, Message: "No file provided"}
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, "", &ErrValidation{Field: uploadField, Message: "No file provided"}
	}
	defer func() {
		_ = file.Close()
	}()

	fileName := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, "", &ErrUnsupportedMediaType{ContentType: header.Header.Get("Content-Type")}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, "", &ErrPayloadTooLarge{Limit: s.maxUploadBytes}
	}

	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return nil, "", &ErrUnsupportedMediaType{ContentType: mt.String()}
	}
	return data, fileName, nil
}

// uploadMessage is the user-facing message for a parse result.
func uploadMessage(method types.ParsingMethod, skills int) string {
	count := map[string]string{"Count": strconv.Itoa(skills)}
	switch method {
	case types.ParsingMethodServerFallback:
		return prompts.Format(prompts.MustGet("resume.json", "upload-success-fallback"), count)
	case types.ParsingMethodServerManual:
		return prompts.Format(prompts.MustGet("resume.json", "upload-success-manual"), count)
	default:
		return prompts.MustGet("resume.json", "upload-success")
	}
}

// handleParsedData handles GET /resume/parsed-data
func (s *Server) handleParsedData(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{})
		return
	}

	upload, err := s.store.LatestResumeUpload(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if upload == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Parsed resume"})
		return
	}

	uploadedAt := upload.CreatedAt
	s.successResponse(w, uploadResponse{
		Message:       uploadMessage(upload.ParsingMethod, len(upload.Normalized.Skills)),
		ParsedData:    upload.ParsedData,
		ParsingMethod: upload.ParsingMethod,
		FileName:      upload.FileName,
		UploadedAt:    &uploadedAt,
	})
}
