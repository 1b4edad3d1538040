package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/Dosada05/pickleball-portal/models"
	"github.com/Dosada05/pickleball-portal/services"
)

// maxMultipartMemory bounds the in-memory part of a multipart parse; larger
// file parts spill to temp files.
const maxMultipartMemory = 32 << 20

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// AddPlayer handles POST /api/add-player: one multipart submission creating a
// registration with its players and uploaded photos.
func (h *RegistrationHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	input, err := parseSubmission(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	registrationID, err := h.registrationService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"success":         true,
		"message":         "players added successfully",
		"registration_id": registrationID,
	})
}

// UpdatePlayer handles POST /api/update-player: the same multipart shape plus
// a teamId field; all existing players are replaced.
func (h *RegistrationHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, err)
		return
	}
	role, err := middleware.UserRoleFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	input, err := parseSubmission(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if teamID, convErr := strconv.Atoi(r.PostFormValue("teamId")); convErr == nil {
		input.RegistrationID = teamID
	}

	if err := h.registrationService.Update(r.Context(), userID, role == models.RoleAdmin, input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"success":         true,
		"message":         "players updated successfully",
		"registration_id": input.RegistrationID,
	})
}

func parseSubmission(r *http.Request) (services.SubmissionInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.SubmissionInput{}, errors.New("invalid multipart form")
	}

	input := services.SubmissionInput{
		LeaderName:   r.PostFormValue("fullname"),
		LeaderPhone:  r.PostFormValue("phone"),
		Category:     r.PostFormValue("category"),
		FullNames:    formValues(r, "full_name"),
		NickNames:    formValues(r, "nick_name"),
		PhoneNumbers: formValues(r, "phone_number"),
		Genders:      formValues(r, "gender"),
		DatesOfBirth: formValues(r, "date_of_birth"),
	}

	for _, fh := range r.MultipartForm.File["avatar[]"] {
		fh := fh
		input.Files = append(input.Files, services.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	return input, nil
}

// formValues reads a repeated form field, accepting both the plain name and
// the bracketed variant some form builders emit.
func formValues(r *http.Request, name string) []string {
	if values, ok := r.MultipartForm.Value[name]; ok {
		return values
	}
	return r.MultipartForm.Value[name+"[]"]
}
