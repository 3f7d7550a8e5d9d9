package enum

type DropdownStateEnum string

const (
	CLOSED DropdownStateEnum = "closed"
	OPEN   DropdownStateEnum = "open"
)

func (e DropdownStateEnum) ToString() string {
	return string(e)
}

type AuthPanelEnum string

const (
	LOGIN_PANEL  AuthPanelEnum = "login"
	SIGNUP_PANEL AuthPanelEnum = "signup"
)

func (e AuthPanelEnum) ToString() string {
	switch e {
	case LOGIN_PANEL:
		return "login"
	case SIGNUP_PANEL:
		return "signup"
	}
	return ""
}

func (e AuthPanelEnum) IsValid() bool {
	switch e {
	case LOGIN_PANEL, SIGNUP_PANEL:
		return true
	}
	return false
}

// DashboardActionEnum identifies a dashboard card button.
type DashboardActionEnum string

const (
	REPORT_LOST  DashboardActionEnum = "report-lost"
	REPORT_FOUND DashboardActionEnum = "report-found"
	VIEW_ITEMS   DashboardActionEnum = "view-items"
)

func (e DashboardActionEnum) ToString() string {
	return string(e)
}

func (e DashboardActionEnum) IsValid() bool {
	_, ok := dashboardDestinations[e]
	return ok
}

var dashboardDestinations = map[DashboardActionEnum]string{
	REPORT_LOST:  "report-lost-redirect.html",
	REPORT_FOUND: "report-found-redirect.html",
	VIEW_ITEMS:   "view-items-redirect.html",
}

// Destination is the fixed relative page the action navigates to.
func (e DashboardActionEnum) Destination() string {
	return dashboardDestinations[e]
}

var dashboardTargets = map[DashboardActionEnum]string{
	REPORT_LOST:  "/report_lost",
	REPORT_FOUND: "/report_found",
	VIEW_ITEMS:   "/items",
}

// Target is the page the destination forwards to.
func (e DashboardActionEnum) Target() string {
	return dashboardTargets[e]
}

// DashboardActionByDestination finds the action owning a destination page.
func DashboardActionByDestination(page string) (DashboardActionEnum, bool) {
	for action, destination := range dashboardDestinations {
		if destination == page {
			return action, true
		}
	}
	return "", false
}

// Label is the card button text.
func (e DashboardActionEnum) Label() string {
	switch e {
	case REPORT_LOST:
		return "Report Lost Item"
	case REPORT_FOUND:
		return "Report Found Item"
	case VIEW_ITEMS:
		return "View Items"
	}
	return ""
}

// DashboardActions lists the actions in card order.
func DashboardActions() []DashboardActionEnum {
	return []DashboardActionEnum{REPORT_LOST, REPORT_FOUND, VIEW_ITEMS}
}
