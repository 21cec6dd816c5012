package machine

type CreateMachineRequest struct {
	HostelID   int64  `json:"hostel_id" binding:"required"`
	Label      string `json:"label" binding:"required"`
	Type       string `json:"type" binding:"required"`
	CostPerUse int64  `json:"cost_per_use" binding:"required,gt=0"`
}

type UpdateMachineRequest struct {
	Label      string `json:"label"`
	HostelID   int64  `json:"hostel_id"`
	CostPerUse int64  `json:"cost_per_use"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}
