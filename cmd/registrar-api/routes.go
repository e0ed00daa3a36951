package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/handler"
	"github.com/noah-isme/registrar-api/internal/middleware"
	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/config"
)

type services struct {
	levels       *service.AcademicLevelService
	grading      *service.GradingPeriodService
	exports      *service.ExportService
	subjects     *service.SubjectService
	strands      *service.StrandService
	departments  *service.DepartmentService
	courses      *service.CourseService
	assignments  *service.AssignmentService
	enrollments  *service.EnrollmentService
	honors       *service.HonorTypeService
	templates    *service.CertificateTemplateService
	certificates *service.CertificateService
	audit        *service.AuditService
}

func registerRoutes(r *gin.Engine, cfg *config.Config, svcs services, metrics *service.MetricsService, db handler.Pinger, audit middleware.AuditWriter, logr *zap.Logger) {
	ops := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if metrics != nil {
		r.GET("/metrics", ops.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audited := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(audit, logr, action, resource)
	}
	create := func(resource string) gin.HandlerFunc { return audited(models.AuditActionCreate, resource) }
	update := func(resource string) gin.HandlerFunc { return audited(models.AuditActionUpdate, resource) }
	remove := func(resource string) gin.HandlerFunc { return audited(models.AuditActionDelete, resource) }

	api := r.Group(cfg.APIPrefix)

	levels := handler.NewAcademicLevelHandler(svcs.levels)
	api.GET("/academic-levels", levels.List)
	api.GET("/academic-levels/:id", levels.Get)
	api.POST("/academic-levels", create("academic_levels"), levels.Create)
	api.PUT("/academic-levels/:id", update("academic_levels"), levels.Update)
	api.DELETE("/academic-levels/:id", remove("academic_levels"), levels.Delete)

	grading := handler.NewGradingPeriodHandler(svcs.grading, svcs.exports)
	periods := api.Group("/grading-periods")
	periods.GET("", grading.List)
	periods.GET("/structure", grading.Structure)
	periods.GET("/parent-candidates", grading.ParentCandidates)
	periods.GET("/export", grading.Export)
	periods.POST("/weighted-average", grading.WeightedAverage)
	periods.GET("/:id", grading.Get)
	periods.GET("/:id/children", grading.Children)
	periods.POST("/:id/final-average", grading.FinalAverage)
	periods.POST("", create("grading_periods"), grading.Create)
	periods.PUT("/:id", update("grading_periods"), grading.Update)
	periods.DELETE("/:id", remove("grading_periods"), grading.Delete)

	subjects := handler.NewSubjectHandler(svcs.subjects)
	api.GET("/subjects", subjects.List)
	api.GET("/subjects/:id", subjects.Get)
	api.POST("/subjects", create("subjects"), subjects.Create)
	api.PUT("/subjects/:id", update("subjects"), subjects.Update)
	api.DELETE("/subjects/:id", remove("subjects"), subjects.Delete)

	strands := handler.NewStrandHandler(svcs.strands)
	api.GET("/strands", strands.List)
	api.GET("/strands/:id", strands.Get)
	api.POST("/strands", create("strands"), strands.Create)
	api.PUT("/strands/:id", update("strands"), strands.Update)
	api.DELETE("/strands/:id", remove("strands"), strands.Delete)

	departments := handler.NewDepartmentHandler(svcs.departments, svcs.courses)
	api.GET("/departments", departments.List)
	api.GET("/departments/:id", departments.Get)
	api.POST("/departments", create("departments"), departments.Create)
	api.PUT("/departments/:id", update("departments"), departments.Update)
	api.DELETE("/departments/:id", remove("departments"), departments.Delete)
	api.GET("/courses", departments.ListCourses)
	api.GET("/courses/:id", departments.GetCourse)
	api.POST("/courses", create("courses"), departments.CreateCourse)
	api.PUT("/courses/:id", update("courses"), departments.UpdateCourse)
	api.DELETE("/courses/:id", remove("courses"), departments.DeleteCourse)

	assignments := handler.NewAssignmentHandler(svcs.assignments)
	api.GET("/assignments", assignments.List)
	api.GET("/assignments/:id", assignments.Get)
	api.POST("/assignments", create("assignments"), assignments.Create)
	api.PUT("/assignments/:id", update("assignments"), assignments.Update)
	api.DELETE("/assignments/:id", remove("assignments"), assignments.Delete)

	enrollments := handler.NewEnrollmentHandler(svcs.enrollments)
	api.GET("/enrollments", enrollments.List)
	api.GET("/enrollments/:id", enrollments.Get)
	api.POST("/enrollments", create("enrollments"), enrollments.Enroll)
	api.PATCH("/enrollments/:id/status", update("enrollments"), enrollments.UpdateStatus)
	api.DELETE("/enrollments/:id", remove("enrollments"), enrollments.Delete)

	honors := handler.NewHonorHandler(svcs.honors, svcs.templates)
	api.GET("/honor-types", honors.ListHonorTypes)
	api.GET("/honor-types/resolve", honors.ResolveHonorType)
	api.GET("/honor-types/:id", honors.GetHonorType)
	api.POST("/honor-types", create("honor_types"), honors.CreateHonorType)
	api.PUT("/honor-types/:id", update("honor_types"), honors.UpdateHonorType)
	api.DELETE("/honor-types/:id", remove("honor_types"), honors.DeleteHonorType)
	api.GET("/certificate-templates", honors.ListTemplates)
	api.GET("/certificate-templates/:id", honors.GetTemplate)
	api.POST("/certificate-templates", create("certificate_templates"), honors.CreateTemplate)
	api.PUT("/certificate-templates/:id", update("certificate_templates"), honors.UpdateTemplate)
	api.DELETE("/certificate-templates/:id", remove("certificate_templates"), honors.DeleteTemplate)

	certs := handler.NewCertificateHandler(svcs.certificates)
	api.GET("/certificates", certs.List)
	api.POST("/certificates/batch", audited(models.AuditActionIssue, "certificates"), certs.IssueBatch)
	api.GET("/certificates/download/:token", certs.Download)
	api.GET("/certificates/:id", certs.Get)
	api.GET("/certificates/:id/link", certs.Link)
	api.GET("/certificates/:id/preview", certs.Preview)
	api.DELETE("/certificates/:id", remove("certificates"), certs.Delete)

	api.GET("/audit-logs", handler.NewAuditHandler(svcs.audit).List)
}
