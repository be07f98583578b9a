package auth

const (
	PermBonusReadOwn       = "bonus.read.own"
	PermBonusManage        = "bonus.manage"
	PermAnnouncementRead   = "announcement.read"
	PermAnnouncementManage = "announcement.manage"
	PermFeedbackRead       = "feedback.read"
	PermFeedbackSubmit     = "feedback.submit"
	PermLeaveReadOwn       = "leave.read.own"
	PermLeaveApply         = "leave.apply"
	PermLeaveApprove       = "leave.approve"
	PermOvertimeReadOwn    = "overtime.read.own"
	PermOvertimeLog        = "overtime.log"
	PermOvertimeApprove    = "overtime.approve"
	PermHRMDashboard       = "hrm.dashboard"
	PermBonusStatement     = "bonus.statement"
)

var DefaultPermissions = []string{
	PermBonusReadOwn,
	PermBonusManage,
	PermBonusStatement,
	PermAnnouncementRead,
	PermAnnouncementManage,
	PermFeedbackRead,
	PermFeedbackSubmit,
	PermLeaveReadOwn,
	PermLeaveApply,
	PermLeaveApprove,
	PermOvertimeReadOwn,
	PermOvertimeLog,
	PermOvertimeApprove,
	PermHRMDashboard,
}

// RolePermissions lists what each role is granted directly. Project managers
// inherit everything a manager has.
var RolePermissions = map[Role][]string{
	RoleEmployee: {
		PermBonusReadOwn,
		PermBonusStatement,
		PermAnnouncementRead,
		PermFeedbackSubmit,
		PermLeaveReadOwn,
		PermLeaveApply,
		PermOvertimeReadOwn,
		PermOvertimeLog,
		PermHRMDashboard,
	},
	RoleManager: {
		PermBonusReadOwn,
		PermBonusManage,
		PermBonusStatement,
		PermAnnouncementRead,
		PermAnnouncementManage,
		PermFeedbackRead,
		PermFeedbackSubmit,
		PermLeaveReadOwn,
		PermLeaveApply,
		PermLeaveApprove,
		PermOvertimeReadOwn,
		PermOvertimeLog,
		PermOvertimeApprove,
		PermHRMDashboard,
	},
}

// RoleInherits maps a role to the role whose grants it also receives.
var RoleInherits = map[Role]Role{
	RoleProjectManager: RoleManager,
}
