package handlers

import "github.com/gin-gonic/gin"

// JobHandlerInterface defines the methods needed by the job routes.
type JobHandlerInterface interface {
	BrowseJobs(c *gin.Context)
	GetFacets(c *gin.Context)
	CreateJob(c *gin.Context)
	ListMyJobs(c *gin.Context)
	GetJobByID(c *gin.Context)
	UpdateJob(c *gin.Context)
	DeleteJob(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	ApplyToJob(c *gin.Context)
	CreateApplication(c *gin.Context)
	ListJobApplications(c *gin.Context)
	ListMyApplications(c *gin.Context)
	ListReceivedApplications(c *gin.Context)
	GetApplication(c *gin.Context)
	UpdateApplicationStatus(c *gin.Context)
}

// CandidateHandlerInterface defines the methods needed by the candidate routes.
type CandidateHandlerInterface interface {
	ListCandidates(c *gin.Context)
	GetMyProfile(c *gin.Context)
	SaveMyProfile(c *gin.Context)
	GetMyCompletion(c *gin.Context)
	GetCandidate(c *gin.Context)
	UploadResume(c *gin.Context)
	DeleteResume(c *gin.Context)
	UploadAvatar(c *gin.Context)
	DeleteAvatar(c *gin.Context)
}

// OverviewHandlerInterface defines the methods needed by the overview routes.
type OverviewHandlerInterface interface {
	RecruiterOverview(c *gin.Context)
	CandidateSummary(c *gin.Context)
}

// Ensure handlers implements the interface (compile-time check)
var _ JobHandlerInterface = (*JobHandler)(nil)
var _ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
var _ CandidateHandlerInterface = (*CandidateHandler)(nil)
var _ OverviewHandlerInterface = (*OverviewHandler)(nil)
