package services

import (
	"context"
	"testing"

	"sevasetu-backend/dal"
	"sevasetu-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// WorkflowServiceTestSuite covers the status workflow engine
type WorkflowServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	taskRepo *MockTaskRepository
	userRepo *MockUserRepository
	matcher  *MockMatcherService
	audit    *MockAuditService
	notifier *MockNotifier
	workflow *WorkflowService
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.taskRepo = &MockTaskRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.matcher = &MockMatcherService{}
	suite.matcher.On("SelectBest", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	suite.audit = newQuietAudit()
	suite.notifier = &MockNotifier{}
	suite.notifier.On("TaskCreated", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("TaskTransitioned", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()

	suite.workflow = NewWorkflowService(suite.taskRepo, suite.userRepo, suite.matcher, suite.audit, suite.notifier, newQuietLogger())
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}

func (suite *WorkflowServiceTestSuite) pendingTask() *models.Task {
	return &models.Task{
		ID:        "task-1",
		Kind:      models.TaskKindDonation,
		City:      "Guntur",
		Location:  "guntur",
		Status:    models.TaskStatusPending,
		CreatedBy: "donor-1",
	}
}

func (suite *WorkflowServiceTestSuite) approvedVolunteer(id, loc string) *models.User {
	return &models.User{
		ID:             id,
		Role:           models.UserRoleVolunteer,
		Location:       loc,
		ApprovalStatus: models.ApprovalStatusApproved,
	}
}

// TestTransitionStatusPairs exercises every from/to pair: exactly three
// edges are legal, everything else must fail with IllegalTransition.
func (suite *WorkflowServiceTestSuite) TestTransitionStatusPairs() {
	all := []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusAccepted,
		models.TaskStatusPicked,
		models.TaskStatusDelivered,
	}
	legal := map[models.TaskStatus]models.TaskStatus{
		models.TaskStatusPending:  models.TaskStatusAccepted,
		models.TaskStatusAccepted: models.TaskStatusPicked,
		models.TaskStatusPicked:   models.TaskStatusDelivered,
	}

	for _, from := range all {
		for _, to := range all {
			suite.SetupTest()

			task := suite.pendingTask()
			task.Status = from
			suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
			suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", from, mock.Anything).Return(nil).Maybe()

			result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", to, "admin-1", models.UserRoleAdmin)

			if legal[from] == to {
				assert.NoError(suite.T(), err, "expected %s -> %s to succeed", from, to)
				assert.Equal(suite.T(), from, result.PreviousStatus)
				assert.Equal(suite.T(), to, result.NewStatus)
			} else {
				assert.Nil(suite.T(), result, "expected %s -> %s to fail", from, to)
				assert.True(suite.T(), models.IsKind(err, models.ErrIllegalTransition),
					"expected IllegalTransition for %s -> %s, got %v", from, to, err)
			}
		}
	}
}

// TestAcceptStampsAssigneeAndTimestamp verifies the accepted write carries
// the assignee and stage timestamp in a single update.
func (suite *WorkflowServiceTestSuite) TestAcceptStampsAssigneeAndTimestamp() {
	task := suite.pendingTask()
	volunteer := suite.approvedVolunteer("vol-1", "guntur")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.userRepo.On("GetUser", suite.ctx, "vol-1").Return(volunteer, nil)
	suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusPending,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			_, hasStamp := updates["acceptedAt"]
			return updates["status"] == "accepted" && updates["assignedTo"] == "vol-1" && hasStamp
		})).Return(nil)

	result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusPending, result.PreviousStatus)
	assert.Equal(suite.T(), models.TaskStatusAccepted, result.NewStatus)
	suite.taskRepo.AssertExpectations(suite.T())
}

// TestAcceptLostRace simulates two volunteers racing on the same pending
// task: the conditional write fails and the loser sees IllegalTransition
// naming the committed status.
func (suite *WorkflowServiceTestSuite) TestAcceptLostRace() {
	task := suite.pendingTask()
	committed := suite.pendingTask()
	committed.Status = models.TaskStatusAccepted
	committed.AssignedTo = "vol-1"

	volunteer := suite.approvedVolunteer("vol-2", "guntur")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil).Once()
	suite.userRepo.On("GetUser", suite.ctx, "vol-2").Return(volunteer, nil)
	suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusPending, mock.Anything).
		Return(dal.ErrConditionFailed)
	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(committed, nil).Once()

	result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-2", models.UserRoleVolunteer)

	assert.Nil(suite.T(), result)
	assert.True(suite.T(), models.IsKind(err, models.ErrIllegalTransition))
	assert.Contains(suite.T(), err.Error(), "no longer pending")
	assert.Contains(suite.T(), err.Error(), "accepted")
	suite.notifier.AssertNotCalled(suite.T(), "TaskTransitioned", mock.Anything, mock.Anything, mock.Anything)
}

// TestAcceptRequiresApprovedVolunteer rejects pending and rejected accounts.
func (suite *WorkflowServiceTestSuite) TestAcceptRequiresApprovedVolunteer() {
	task := suite.pendingTask()
	pendingVolunteer := suite.approvedVolunteer("vol-1", "guntur")
	pendingVolunteer.ApprovalStatus = models.ApprovalStatusPending

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.userRepo.On("GetUser", suite.ctx, "vol-1").Return(pendingVolunteer, nil)

	_, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.True(suite.T(), models.IsKind(err, models.ErrForbidden))
	suite.taskRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestAcceptNearbyCityEligible allows a volunteer from the same region group
// to accept, matching what fallback search would have surfaced.
func (suite *WorkflowServiceTestSuite) TestAcceptNearbyCityEligible() {
	task := suite.pendingTask()
	task.City = "Nellore"
	task.Location = "nellore"
	volunteer := suite.approvedVolunteer("vol-1", "visakhapatnam")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.userRepo.On("GetUser", suite.ctx, "vol-1").Return(volunteer, nil)
	suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusPending, mock.Anything).Return(nil)

	_, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.NoError(suite.T(), err)
}

// TestAcceptOutOfRegionForbidden rejects a volunteer from an unrelated city.
func (suite *WorkflowServiceTestSuite) TestAcceptOutOfRegionForbidden() {
	task := suite.pendingTask()
	task.City = "Nellore"
	task.Location = "nellore"
	volunteer := suite.approvedVolunteer("vol-1", "kurnool")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.userRepo.On("GetUser", suite.ctx, "vol-1").Return(volunteer, nil)

	_, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.True(suite.T(), models.IsKind(err, models.ErrForbidden))
}

// TestPickedRequiresAssignee rejects anyone except the assigned volunteer.
func (suite *WorkflowServiceTestSuite) TestPickedRequiresAssignee() {
	task := suite.pendingTask()
	task.Status = models.TaskStatusAccepted
	task.AssignedTo = "vol-1"

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindRequest, "task-1").Return(task, nil)

	_, err := suite.workflow.Transition(suite.ctx, models.TaskKindRequest, "task-1", models.TaskStatusPicked, "vol-2", models.UserRoleVolunteer)

	assert.True(suite.T(), models.IsKind(err, models.ErrForbidden))
}

// TestAdminOverrideSkipsAssigneeCheck lets an admin advance any task.
func (suite *WorkflowServiceTestSuite) TestAdminOverrideSkipsAssigneeCheck() {
	task := suite.pendingTask()
	task.Status = models.TaskStatusPicked
	task.AssignedTo = "vol-1"

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusPicked,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			_, hasStamp := updates["deliveredAt"]
			return updates["status"] == "delivered" && hasStamp
		})).Return(nil)

	result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusDelivered, "admin-1", models.UserRoleAdmin)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusDelivered, result.NewStatus)
}

// TestTransitionNotFound propagates the repository's NotFound.
func (suite *WorkflowServiceTestSuite) TestTransitionNotFound() {
	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "missing").
		Return(nil, models.NewAppError(models.ErrNotFound, "donation missing not found"))

	_, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "missing", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.True(suite.T(), models.IsKind(err, models.ErrNotFound))
}

// TestDeletePendingByCreator deletes and records the action.
func (suite *WorkflowServiceTestSuite) TestDeletePendingByCreator() {
	task := suite.pendingTask()

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.taskRepo.On("DeleteTask", suite.ctx, models.TaskKindDonation, "task-1").Return(nil)

	err := suite.workflow.Delete(suite.ctx, models.TaskKindDonation, "task-1", "donor-1", models.UserRoleDonor)

	assert.NoError(suite.T(), err)
	suite.taskRepo.AssertExpectations(suite.T())
}

// TestDeleteNonPendingRejected refuses an accepted task even for an admin.
func (suite *WorkflowServiceTestSuite) TestDeleteNonPendingRejected() {
	task := suite.pendingTask()
	task.Status = models.TaskStatusAccepted

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)

	err := suite.workflow.Delete(suite.ctx, models.TaskKindDonation, "task-1", "admin-1", models.UserRoleAdmin)

	assert.True(suite.T(), models.IsKind(err, models.ErrValidation))
	suite.taskRepo.AssertNotCalled(suite.T(), "DeleteTask", mock.Anything, mock.Anything, mock.Anything)
}

// TestDeleteByStrangerForbidden refuses a non-creator non-admin.
func (suite *WorkflowServiceTestSuite) TestDeleteByStrangerForbidden() {
	task := suite.pendingTask()

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)

	err := suite.workflow.Delete(suite.ctx, models.TaskKindDonation, "task-1", "donor-2", models.UserRoleDonor)

	assert.True(suite.T(), models.IsKind(err, models.ErrForbidden))
}

// TestDeclineRecordsVolunteer records a first decline as a set add.
func (suite *WorkflowServiceTestSuite) TestDeclineRecordsVolunteer() {
	task := suite.pendingTask()
	task.DeclinedBy = []string{"vol-1"}

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindRequest, "task-1").Return(task, nil)
	suite.taskRepo.On("AddDeclinedBy", suite.ctx, models.TaskKindRequest, "task-1", "vol-2").Return(nil)

	err := suite.workflow.Decline(suite.ctx, models.TaskKindRequest, "task-1", "vol-2")

	assert.NoError(suite.T(), err)
	suite.taskRepo.AssertExpectations(suite.T())
}

// TestDeclineIdempotent treats a repeat decline as a no-op.
func (suite *WorkflowServiceTestSuite) TestDeclineIdempotent() {
	task := suite.pendingTask()
	task.DeclinedBy = []string{"vol-1"}

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindRequest, "task-1").Return(task, nil)

	err := suite.workflow.Decline(suite.ctx, models.TaskKindRequest, "task-1", "vol-1")

	assert.NoError(suite.T(), err)
	suite.taskRepo.AssertNotCalled(suite.T(), "AddDeclinedBy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestDeclineBlocksLaterAccept is the point of recording declines: the
// volunteer who passed cannot turn around and accept the same task.
func (suite *WorkflowServiceTestSuite) TestDeclineBlocksLaterAccept() {
	task := suite.pendingTask()
	task.DeclinedBy = []string{"vol-1"}

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)

	result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-1", models.UserRoleVolunteer)

	assert.Nil(suite.T(), result)
	assert.True(suite.T(), models.IsKind(err, models.ErrForbidden))
	assert.Contains(suite.T(), err.Error(), "declined")
	suite.taskRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestDeclineLeavesOthersEligible lets any volunteer who has not declined
// still accept.
func (suite *WorkflowServiceTestSuite) TestDeclineLeavesOthersEligible() {
	task := suite.pendingTask()
	task.DeclinedBy = []string{"vol-1"}
	volunteer := suite.approvedVolunteer("vol-2", "guntur")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.userRepo.On("GetUser", suite.ctx, "vol-2").Return(volunteer, nil)
	suite.taskRepo.On("TransitionStatus", suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusPending, mock.Anything).Return(nil)

	result, err := suite.workflow.Transition(suite.ctx, models.TaskKindDonation, "task-1", models.TaskStatusAccepted, "vol-2", models.UserRoleVolunteer)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusAccepted, result.NewStatus)
}

// TestDeclineNudgesNextCandidate re-matches after a decline, excluding
// everyone who already passed, and notifies the selected volunteer.
func (suite *WorkflowServiceTestSuite) TestDeclineNudgesNextCandidate() {
	task := suite.pendingTask()
	task.DeclinedBy = []string{"vol-1"}
	next := suite.approvedVolunteer("vol-3", "guntur")

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindDonation, "task-1").Return(task, nil)
	suite.taskRepo.On("AddDeclinedBy", suite.ctx, models.TaskKindDonation, "task-1", "vol-2").Return(nil)

	matcher := &MockMatcherService{}
	matcher.On("SelectBest", suite.ctx, "guntur", map[string]bool{"vol-1": true, "vol-2": true}).Return(next, nil)
	notifier := &MockNotifier{}
	notifier.On("TaskCreated", suite.ctx, task, []string{"vol-3"}).Return()
	suite.workflow = NewWorkflowService(suite.taskRepo, suite.userRepo, matcher, suite.audit, notifier, newQuietLogger())

	err := suite.workflow.Decline(suite.ctx, models.TaskKindDonation, "task-1", "vol-2")

	assert.NoError(suite.T(), err)
	matcher.AssertExpectations(suite.T())
	notifier.AssertExpectations(suite.T())
}

// TestDeclineNonPendingRejected refuses once the task has been accepted.
func (suite *WorkflowServiceTestSuite) TestDeclineNonPendingRejected() {
	task := suite.pendingTask()
	task.Status = models.TaskStatusAccepted

	suite.taskRepo.On("GetTask", suite.ctx, models.TaskKindRequest, "task-1").Return(task, nil)

	err := suite.workflow.Decline(suite.ctx, models.TaskKindRequest, "task-1", "vol-1")

	assert.True(suite.T(), models.IsKind(err, models.ErrValidation))
}
