package domain

type ActiveBucket string

const (
	BucketDaily   ActiveBucket = "dau"
	BucketWeekly  ActiveBucket = "wau"
	BucketMonthly ActiveBucket = "mau"
)

func (b ActiveBucket) Valid() bool {
	switch b {
	case BucketDaily, BucketWeekly, BucketMonthly:
		return true
	default:
		return false
	}
}

// UsersKpis is the aggregate the dashboard KPI widgets are driven by.
// Change percentages are fractions, e.g. 0.12 means +12%.
type UsersKpis struct {
	TotalUsers               int     `json:"totalUsers"`
	NewUsers                 int     `json:"newUsers"`
	NewUsersChangePct        float64 `json:"newUsersChangePct"`
	SubscribedUsers          int     `json:"subscribedUsers"`
	SubscribedUsersChangePct float64 `json:"subscribedUsersChangePct"`
	ActiveUsers              int     `json:"activeUsers"`
	ActiveUsersChangePct     float64 `json:"activeUsersChangePct"`
}

type KpisParams struct {
	WindowDays   int
	ActiveBucket ActiveBucket
}
