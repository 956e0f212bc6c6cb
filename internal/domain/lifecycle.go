package domain

// ServiceState represents a phase in the lifecycle of a purchased service.
type ServiceState string

const (
	// Initial request.
	StateRequested   ServiceState = "requested"
	StateApproved    ServiceState = "approved"
	StateRejected    ServiceState = "rejected"
	StatePendingInfo ServiceState = "pending_info"

	// Provisioning.
	StateProvisioning ServiceState = "provisioning"
	StateReady        ServiceState = "ready"

	// Active.
	StateActive      ServiceState = "active"
	StateMaintenance ServiceState = "maintenance"
	StateWarning     ServiceState = "warning"

	// End of life.
	StateExpiringSoon   ServiceState = "expiring_soon"
	StatePendingRenewal ServiceState = "pending_renewal"
	StateRenewing       ServiceState = "renewing"
	StateCancelling     ServiceState = "cancelling"
	StateSuspended      ServiceState = "suspended"
	StateExpired        ServiceState = "expired"
	StateArchived       ServiceState = "archived"
)

// Phase groups states for dashboards and filtering.
type Phase string

const (
	PhaseRequest      Phase = "request"
	PhaseProvisioning Phase = "provisioning"
	PhaseActive       Phase = "active"
	PhaseEndOfLife    Phase = "end_of_life"
)

// ServiceAction is a named trigger that may move a service between states.
type ServiceAction string

const (
	ActionRequest             ServiceAction = "request"
	ActionApprove             ServiceAction = "approve"
	ActionReject              ServiceAction = "reject"
	ActionRequestInfo         ServiceAction = "request_info"
	ActionProvideInfo         ServiceAction = "provide_info"
	ActionStartProvision      ServiceAction = "start_provision"
	ActionCompleteProvision   ServiceAction = "complete_provision"
	ActionActivate            ServiceAction = "activate"
	ActionStartMaintenance    ServiceAction = "start_maintenance"
	ActionCompleteMaintenance ServiceAction = "complete_maintenance"
	ActionFlagIssue           ServiceAction = "flag_issue"
	ActionResolveIssue        ServiceAction = "resolve_issue"
	ActionNotifyExpiration    ServiceAction = "notify_expiration"
	ActionRequestRenewal      ServiceAction = "request_renewal"
	ActionProcessRenewal      ServiceAction = "process_renewal"
	ActionCompleteRenewal     ServiceAction = "complete_renewal"
	ActionExpire              ServiceAction = "expire"
	ActionRequestCancellation ServiceAction = "request_cancellation"
	ActionProcessCancellation ServiceAction = "process_cancellation"
	ActionSuspend             ServiceAction = "suspend"
	ActionReactivate          ServiceAction = "reactivate"
	ActionArchive             ServiceAction = "archive"
)

// Role is the actor category allowed to invoke a transition.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
	RoleSystem Role = "system"
)

// Transition is one rule of the lifecycle: Action moves a service from From
// to To, and only RequiredRole may invoke it. NotifyRoles lists who hears
// about it once it has been applied.
type Transition struct {
	From         ServiceState
	Action       ServiceAction
	To           ServiceState
	RequiredRole Role
	NotifyRoles  []Role
}

// Transitions is the complete service lifecycle, in lookup order.
// Lookups scan it linearly, so the first row for a (From, Action) pair wins.
var Transitions = []Transition{
	{From: StateRequested, Action: ActionApprove, To: StateApproved, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient, RoleStaff}},
	{From: StateRequested, Action: ActionReject, To: StateRejected, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient}},
	{From: StateRequested, Action: ActionRequestInfo, To: StatePendingInfo, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient}},
	{From: StatePendingInfo, Action: ActionProvideInfo, To: StateRequested, RequiredRole: RoleClient, NotifyRoles: []Role{RoleAdmin}},
	{From: StateApproved, Action: ActionStartProvision, To: StateProvisioning, RequiredRole: RoleStaff, NotifyRoles: []Role{RoleClient}},
	{From: StateProvisioning, Action: ActionCompleteProvision, To: StateReady, RequiredRole: RoleStaff, NotifyRoles: []Role{RoleAdmin}},
	{From: StateReady, Action: ActionActivate, To: StateActive, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient, RoleStaff}},
	{From: StateActive, Action: ActionStartMaintenance, To: StateMaintenance, RequiredRole: RoleStaff, NotifyRoles: []Role{RoleClient}},
	{From: StateMaintenance, Action: ActionCompleteMaintenance, To: StateActive, RequiredRole: RoleStaff, NotifyRoles: []Role{RoleClient}},
	{From: StateActive, Action: ActionFlagIssue, To: StateWarning, RequiredRole: RoleSystem, NotifyRoles: []Role{RoleAdmin, RoleStaff}},
	{From: StateWarning, Action: ActionResolveIssue, To: StateActive, RequiredRole: RoleStaff, NotifyRoles: []Role{RoleAdmin}},
	{From: StateActive, Action: ActionNotifyExpiration, To: StateExpiringSoon, RequiredRole: RoleSystem, NotifyRoles: []Role{RoleClient, RoleAdmin}},
	{From: StateExpiringSoon, Action: ActionRequestRenewal, To: StatePendingRenewal, RequiredRole: RoleClient, NotifyRoles: []Role{RoleAdmin}},
	{From: StatePendingRenewal, Action: ActionProcessRenewal, To: StateRenewing, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient}},
	{From: StateRenewing, Action: ActionCompleteRenewal, To: StateActive, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient}},
	{From: StateExpiringSoon, Action: ActionExpire, To: StateExpired, RequiredRole: RoleSystem, NotifyRoles: []Role{RoleClient, RoleAdmin}},
	{From: StateActive, Action: ActionRequestCancellation, To: StateCancelling, RequiredRole: RoleClient, NotifyRoles: []Role{RoleAdmin}},
	{From: StateExpiringSoon, Action: ActionRequestCancellation, To: StateCancelling, RequiredRole: RoleClient, NotifyRoles: []Role{RoleAdmin}},
	{From: StateCancelling, Action: ActionProcessCancellation, To: StateExpired, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient}},
	{From: StateActive, Action: ActionSuspend, To: StateSuspended, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient, RoleStaff}},
	{From: StateSuspended, Action: ActionReactivate, To: StateActive, RequiredRole: RoleAdmin, NotifyRoles: []Role{RoleClient, RoleStaff}},
	{From: StateSuspended, Action: ActionExpire, To: StateExpired, RequiredRole: RoleSystem, NotifyRoles: []Role{RoleClient, RoleAdmin}},
	{From: StateExpired, Action: ActionArchive, To: StateArchived, RequiredRole: RoleAdmin},
	{From: StateRejected, Action: ActionArchive, To: StateArchived, RequiredRole: RoleAdmin},
}

// ValidNextActions returns the actions role may perform from current, in
// table order. Admins also see staff-gated actions. The system role and
// unknown roles get an empty result.
func ValidNextActions(current ServiceState, role Role) []ServiceAction {
	if role == RoleSystem || !role.Valid() {
		return []ServiceAction{}
	}

	actions := make([]ServiceAction, 0)
	for _, t := range Transitions {
		if t.From != current {
			continue
		}
		if t.RequiredRole == role || (role == RoleAdmin && t.RequiredRole == RoleStaff) {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// NextState returns the state that action leads to from current. It does not
// check who is asking; the second result is false when no rule exists.
func NextState(current ServiceState, action ServiceAction) (ServiceState, bool) {
	t, ok := TransitionFor(current, action)
	if !ok {
		return "", false
	}
	return t.To, true
}

// TransitionFor returns the first rule matching current and action.
func TransitionFor(current ServiceState, action ServiceAction) (Transition, bool) {
	for _, t := range Transitions {
		if t.From == current && t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// AllStates lists every lifecycle state in declaration order.
func AllStates() []ServiceState {
	return []ServiceState{
		StateRequested, StateApproved, StateRejected, StatePendingInfo,
		StateProvisioning, StateReady,
		StateActive, StateMaintenance, StateWarning,
		StateExpiringSoon, StatePendingRenewal, StateRenewing, StateCancelling,
		StateSuspended, StateExpired, StateArchived,
	}
}

// AllActions lists every lifecycle action in declaration order.
func AllActions() []ServiceAction {
	return []ServiceAction{
		ActionRequest, ActionApprove, ActionReject, ActionRequestInfo, ActionProvideInfo,
		ActionStartProvision, ActionCompleteProvision, ActionActivate,
		ActionStartMaintenance, ActionCompleteMaintenance, ActionFlagIssue, ActionResolveIssue,
		ActionNotifyExpiration, ActionRequestRenewal, ActionProcessRenewal, ActionCompleteRenewal,
		ActionExpire, ActionRequestCancellation, ActionProcessCancellation,
		ActionSuspend, ActionReactivate, ActionArchive,
	}
}

// Valid reports whether s is a known state.
func (s ServiceState) Valid() bool {
	for _, known := range AllStates() {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no rule leaves s.
func (s ServiceState) IsTerminal() bool {
	for _, t := range Transitions {
		if t.From == s {
			return false
		}
	}
	return true
}

// Phase returns the lifecycle phase s belongs to.
func (s ServiceState) Phase() Phase {
	switch s {
	case StateRequested, StateApproved, StateRejected, StatePendingInfo:
		return PhaseRequest
	case StateProvisioning, StateReady:
		return PhaseProvisioning
	case StateActive, StateMaintenance, StateWarning:
		return PhaseActive
	default:
		return PhaseEndOfLife
	}
}

// Valid reports whether a is a known action.
func (a ServiceAction) Valid() bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleClient, RoleSystem:
		return true
	}
	return false
}
