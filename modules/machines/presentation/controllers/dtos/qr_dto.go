package dtos

import (
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
)

// QROrganizationResponse is the public identity of the owning organization:
// just enough for the report form to say who will receive the report.
type QROrganizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type QRMachineResponse struct {
	ID       string            `json:"id"`
	Model    *ModelResponse    `json:"model,omitempty"`
	Location *LocationResponse `json:"location,omitempty"`
}

type QRResolveResponse struct {
	Machine      QRMachineResponse      `json:"machine"`
	Organization QROrganizationResponse `json:"organization"`
}

func NewQRResolveResponse(qr *services.QRContext) QRResolveResponse {
	resp := QRResolveResponse{
		Machine: QRMachineResponse{ID: qr.Machine.ID()},
		Organization: QROrganizationResponse{
			ID:   qr.Organization.ID,
			Name: qr.Organization.Name,
		},
	}
	if mdl := qr.Machine.Model(); mdl != nil {
		mr := NewModelResponse(mdl)
		resp.Machine.Model = &mr
	}
	if loc := qr.Machine.Location(); loc != nil {
		lr := NewLocationResponse(loc)
		resp.Machine.Location = &lr
	}
	return resp
}
