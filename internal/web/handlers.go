package web

// handlers.go implements the API surface: workbook upload, filtered
// sheet views, summaries, pending edits, reconcile, sheet creation, and
// export. Handlers translate HTTP into core/session calls and back;
// none of the workbook semantics live here.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/veemap/taskdash/internal/core"
	"github.com/veemap/taskdash/internal/logging"
	"github.com/veemap/taskdash/internal/session"
	"github.com/veemap/taskdash/internal/xlsx"
)

// handleUploadWorkbook accepts a multipart xlsx upload, loads it into a
// new session, and returns the session ID with the sheet list.
func (s *Server) handleUploadWorkbook(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondBadRequest(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	raws, err := xlsx.Decode(file)
	if err != nil {
		respondBadRequest(w, "file is not a valid xlsx workbook")
		return
	}

	wb, err := core.LoadWorkbook(raws, s.loadOpts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, err := s.sessions.Create(wb, header.Filename)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := withRequestMetadata(r.Context(), r)
	s.audit.Record(ctx, core.AuditEntry{
		Action:    core.ActionWorkbookUpload,
		SessionID: sess.ID,
		FileName:  header.Filename,
	})

	logging.FromContext(ctx).Info("workbook loaded",
		"session_id", sess.ID,
		"file", header.Filename,
		"sheets", len(wb.SheetNames()),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": sess.ID,
		"fileName":  header.Filename,
		"sheets":    wb.SheetNames(),
	})
}

// sheetInfo is the per-sheet block of the workbook info response.
type sheetInfo struct {
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	PendingEdits int    `json:"pendingEdits"`
}

// handleWorkbookInfo returns the sheet list with row counts and pending
// edit counts.
func (s *Server) handleWorkbookInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	wb := sess.Snapshot()
	var sheets []sheetInfo
	for _, name := range wb.SheetNames() {
		t, err := wb.Table(name)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		sheets = append(sheets, sheetInfo{
			Name:         name,
			Rows:         t.Len(),
			PendingEdits: sess.PendingEdits(name),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID,
		"fileName":  sess.FileName,
		"sheets":    sheets,
	})
}

// handleCloseSession drops the session and its workbook.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(sessionID) {
		s.respondError(w, r, &core.NotFoundError{Kind: "session", Name: sessionID})
		return
	}

	s.audit.Record(withRequestMetadata(r.Context(), r), core.AuditEntry{
		Action:    core.ActionSessionClosed,
		SessionID: sessionID,
	})

	writeJSON(w, http.StatusOK, map[string]any{"closed": true})
}

// rowPayload is one row of a sheet view response.
type rowPayload struct {
	ID    string            `json:"id"`
	Cells map[string]string `json:"cells"`
}

// handleSheetRows returns a sheet's rows through the request's filter.
// Filters repeat as filter=Column:value1,value2 query parameters; a
// column left out (or listed with no values) is unconstrained.
func (s *Server) handleSheetRows(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	t, err := sess.Snapshot().Table(chi.URLParam(r, "sheetName"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	spec, err := parseFilters(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	view := core.Apply(t, spec)

	columns := make([]string, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		columns = append(columns, c.Name)
	}

	rows := make([]rowPayload, 0, view.Len())
	for row := range view.Rows() {
		cells := make(map[string]string, len(columns))
		for _, col := range columns {
			cells[col] = view.Value(row, col).String()
		}
		rows = append(rows, rowPayload{ID: row.ID, Cells: cells})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sheet":     t.Name(),
		"columns":   columns,
		"rows":      rows,
		"totalRows": t.Len(),
	})
}

// handleSheetSummary returns the dashboard metrics for a filtered view.
func (s *Server) handleSheetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	t, err := sess.Snapshot().Table(chi.URLParam(r, "sheetName"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	spec, err := parseFilters(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, core.Summarize(core.Apply(t, spec)))
}

// handleAddEdits records a batch of pending cell edits for a sheet.
func (s *Server) handleAddEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sheetName := chi.URLParam(r, "sheetName")

	var req struct {
		Edits []session.CellEdit `json:"edits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Edits) == 0 {
		respondBadRequest(w, "no edits provided")
		return
	}

	n, err := sess.AddEdits(sheetName, req.Edits)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := withRequestMetadata(r.Context(), r)
	for _, e := range req.Edits {
		s.audit.Record(ctx, core.AuditEntry{
			Action:     core.ActionCellEdit,
			SessionID:  sess.ID,
			SheetName:  sheetName,
			RowID:      e.RowID,
			ColumnName: e.Column,
			NewValue:   e.Value,
		})
	}

	logging.WithFields(ctx, "session_id", sess.ID, "sheet", sheetName).
		Debug("edits recorded", "count", n)

	writeJSON(w, http.StatusOK, map[string]any{
		"recorded": n,
		"pending":  sess.PendingEdits(sheetName),
	})
}

// handleClearEdits discards a sheet's pending edits.
func (s *Server) handleClearEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sheetName := chi.URLParam(r, "sheetName")

	dropped := sess.ClearEdits(sheetName)
	if dropped > 0 {
		s.audit.Record(withRequestMetadata(r.Context(), r), core.AuditEntry{
			Action:       core.ActionEditsCleared,
			SessionID:    sess.ID,
			SheetName:    sheetName,
			RowsAffected: dropped,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"dropped": dropped})
}

// handleReconcile applies the sheet's pending edits to the workbook in
// one atomic swap.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sheetName := chi.URLParam(r, "sheetName")

	applied, err := sess.Reconcile(sheetName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := withRequestMetadata(r.Context(), r)
	s.audit.Record(ctx, core.AuditEntry{
		Action:       core.ActionReconcile,
		SessionID:    sess.ID,
		SheetName:    sheetName,
		RowsAffected: applied,
	})

	logging.FromContext(ctx).Info("sheet reconciled",
		"session_id", sess.ID,
		"sheet", sheetName,
		"edits_applied", applied,
	)

	writeJSON(w, http.StatusOK, map[string]any{"applied": applied})
}

// handleAddSheet creates a new project sheet seeded from an existing
// sheet's column structure.
func (s *Server) handleAddSheet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		SourceSheet string `json:"sourceSheet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	if err := sess.AddSheet(req.Name, req.SourceSheet); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.audit.Record(withRequestMetadata(r.Context(), r), core.AuditEntry{
		Action:    core.ActionSheetCreate,
		SessionID: sess.ID,
		SheetName: req.Name,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"sheets": sess.Snapshot().SheetNames(),
	})
}

// handleExportWorkbook serializes the whole workbook back to xlsx.
func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	data, err := xlsx.Encode(sess.Snapshot().Serialize())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.audit.Record(withRequestMetadata(r.Context(), r), core.AuditEntry{
		Action:    core.ActionExport,
		SessionID: sess.ID,
		FileName:  exportFileName(sess.FileName),
	})

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(sess.FileName)))
	w.Write(data)
}

// handleExportSheetCSV serializes one sheet as CSV for the per-project
// download.
func (s *Server) handleExportSheetCSV(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sheetName := chi.URLParam(r, "sheetName")

	t, err := sess.Snapshot().Table(sheetName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := xlsx.EncodeCSV(t.Raw())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.audit.Record(withRequestMetadata(r.Context(), r), core.AuditEntry{
		Action:    core.ActionExport,
		SessionID: sess.ID,
		SheetName: sheetName,
	})

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "updated_task_data_"+sheetName+".csv"))
	w.Write(data)
}

// handleAuditTrail returns recent audit entries for the session.
func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	entries, err := s.audit.Recent(r.Context(), sess.ID, 50)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// session resolves the request's session or writes the error response.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return sess, true
}

// parseFilters builds a FilterSpec from repeated filter=Column:v1,v2
// query parameters.
func parseFilters(r *http.Request) (core.FilterSpec, error) {
	spec := core.FilterSpec{}
	for _, raw := range r.URL.Query()["filter"] {
		column, values, found := strings.Cut(raw, ":")
		if !found || column == "" {
			return spec, fmt.Errorf("malformed filter %q, want Column:value1,value2", raw)
		}

		var accepted []string
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				accepted = append(accepted, v)
			}
		}
		spec = spec.With(column, accepted)
	}
	return spec, nil
}

// exportFileName names the downloaded workbook after the uploaded one.
func exportFileName(uploaded string) string {
	name := strings.TrimSuffix(uploaded, ".xlsx")
	if name == "" {
		name = "workbook"
	}
	return name + "_updated.xlsx"
}
