package model

// DashboardCounts is the read-only projection served to the dashboard.
type DashboardCounts struct {
	Patients     int `json:"patients"`
	Doctors      int `json:"doctors"`
	Appointments int `json:"appointments"`
}
