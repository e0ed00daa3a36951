package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Registrar API", "description": "Grading structure, catalog and honor certificate administration.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "tags": [
        {"name": "GradingPeriods", "description": "Grading period trees and grade computations"},
        {"name": "Certificates", "description": "Honor certificate issuance and downloads"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness probe", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable"}}}
        },
        "/academic-levels": {
            "get": {"tags": ["AcademicLevels"], "summary": "List academic levels", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["AcademicLevels"], "summary": "Create academic level", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademicLevelRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/academic-levels/{id}": {
            "get": {"tags": ["AcademicLevels"], "summary": "Get academic level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["AcademicLevels"], "summary": "Update academic level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademicLevelRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["AcademicLevels"], "summary": "Delete academic level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods": {
            "get": {"tags": ["GradingPeriods"], "summary": "List grading periods of an academic level", "parameters": [{"name": "academic_level_id", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Academic level not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["GradingPeriods"], "summary": "Create grading period", "description": "Final periods accept include_flags or flat include_<period_type> booleans.", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingPeriodRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Parent or level not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/structure": {
            "get": {"tags": ["GradingPeriods"], "summary": "Grading period tree", "parameters": [{"name": "academic_level_id", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/parent-candidates": {
            "get": {"tags": ["GradingPeriods"], "summary": "Root semesters that can own child periods", "parameters": [{"name": "academic_level_id", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/export": {
            "get": {"tags": ["GradingPeriods"], "summary": "Export grading periods", "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"name": "academic_level_id", "in": "query", "required": true, "type": "string"}, {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"}], "responses": {"200": {"description": "Document", "schema": {"type": "file"}}, "422": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/weighted-average": {
            "post": {"tags": ["GradingPeriods"], "summary": "Weight-based average over a semester's children or a level's root quarters", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WeightedAverageRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Computation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/{id}": {
            "get": {"tags": ["GradingPeriods"], "summary": "Get grading period", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["GradingPeriods"], "summary": "Update grading period", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingPeriodRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["GradingPeriods"], "summary": "Delete grading period", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Has child periods", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/{id}/children": {
            "get": {"tags": ["GradingPeriods"], "summary": "Child periods of a semester", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grading-periods/{id}/final-average": {
            "post": {"tags": ["GradingPeriods"], "summary": "Unweighted mean of the included sibling grades", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FinalAverageRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Computation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "academic_level_id", "in": "query", "type": "string"}, {"name": "strand_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Subjects"], "summary": "Update subject", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/strands": {
            "get": {"tags": ["Strands"], "summary": "List strands", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "academic_level_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Strands"], "summary": "Create strand", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StrandRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/strands/{id}": {
            "get": {"tags": ["Strands"], "summary": "Get strand", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Strands"], "summary": "Update strand", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StrandRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Strands"], "summary": "Delete strand", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/departments": {
            "get": {"tags": ["Departments"], "summary": "List departments", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Departments"], "summary": "Create department", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DepartmentRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/departments/{id}": {
            "get": {"tags": ["Departments"], "summary": "Get department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Departments"], "summary": "Update department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DepartmentRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Departments"], "summary": "Delete department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "department_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Courses"], "summary": "Create course", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Courses"], "summary": "Update course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Courses"], "summary": "Delete course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/assignments": {
            "get": {"tags": ["Assignments"], "summary": "List assignments", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "role", "in": "query", "type": "string"}, {"name": "instructor_id", "in": "query", "type": "string"}, {"name": "school_year", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Assignments"], "summary": "Create assignment", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/assignments/{id}": {
            "get": {"tags": ["Assignments"], "summary": "Get assignment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Assignments"], "summary": "Update assignment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Assignments"], "summary": "Delete assignment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/enrollments": {
            "get": {"tags": ["Enrollments"], "summary": "List enrollments", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "student_id", "in": "query", "type": "string"}, {"name": "subject_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Enrollments"], "summary": "Create enrollment", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/enrollments/{id}": {
            "get": {"tags": ["Enrollments"], "summary": "Get enrollment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Enrollments"], "summary": "Delete enrollment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/enrollments/{id}/status": {
            "patch": {"tags": ["Enrollments"], "summary": "Drop or re-enroll", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentStatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/honor-types": {
            "get": {"tags": ["HonorTypes"], "summary": "List honor types", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "academic_level_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["HonorTypes"], "summary": "Create honor type", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HonorTypeRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/honor-types/{id}": {
            "get": {"tags": ["HonorTypes"], "summary": "Get honor type", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["HonorTypes"], "summary": "Update honor type", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HonorTypeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["HonorTypes"], "summary": "Delete honor type", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/honor-types/resolve": {
            "get": {"tags": ["HonorTypes"], "summary": "Honor a general average qualifies for", "parameters": [{"name": "average", "in": "query", "required": true, "type": "number"}, {"name": "academic_level_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "No honor matches", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificate-templates": {
            "get": {"tags": ["CertificateTemplates"], "summary": "List certificate templates", "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "honor_type_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["CertificateTemplates"], "summary": "Create certificate template", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CertificateTemplateRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificate-templates/{id}": {
            "get": {"tags": ["CertificateTemplates"], "summary": "Get certificate template", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["CertificateTemplates"], "summary": "Update certificate template", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CertificateTemplateRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["CertificateTemplates"], "summary": "Delete certificate template", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificates": {
            "get": {"tags": ["Certificates"], "summary": "List certificates", "parameters": [{"name": "student_id", "in": "query", "type": "string"}, {"name": "honor_type_id", "in": "query", "type": "string"}, {"name": "school_year", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "READY", "FAILED"]}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificates/batch": {
            "post": {"tags": ["Certificates"], "summary": "Issue certificates to a batch of students", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CertificateBatchRequest"}}], "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificates/{id}": {
            "get": {"tags": ["Certificates"], "summary": "Get certificate", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Certificates"], "summary": "Delete certificate", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/certificates/{id}/link": {
            "get": {"tags": ["Certificates"], "summary": "Signed download link", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "Not rendered yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/certificates/{id}/preview": {
            "get": {"tags": ["Certificates"], "summary": "Render without storing", "produces": ["text/html"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "HTML document"}}}
        },
        "/certificates/download/{token}": {
            "get": {"tags": ["Certificates"], "summary": "Download a rendered certificate", "produces": ["text/html"], "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "HTML document", "schema": {"type": "file"}}, "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/audit-logs": {
            "get": {"tags": ["Audit"], "summary": "Recent audit entries for a resource", "parameters": [{"name": "resource", "in": "query", "required": true, "type": "string"}, {"name": "limit", "in": "query", "type": "integer", "default": 50}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Unknown resource", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "AcademicLevelRequest": {"type": "object", "properties": {"key": {"type": "string", "enum": ["shs", "college"]}, "name": {"type": "string"}, "sort_order": {"type": "integer"}, "is_active": {"type": "boolean"}}, "required": ["key", "name"]},
        "GradingPeriodRequest": {"type": "object", "properties": {"name": {"type": "string"}, "code": {"type": "string"}, "type": {"type": "string", "enum": ["quarter", "semester"]}, "period_type": {"type": "string", "enum": ["quarter", "midterm", "prefinal", "final"]}, "academic_level_id": {"type": "string"}, "parent_id": {"type": "string"}, "semester_number": {"type": "integer"}, "weight": {"type": "number"}, "is_calculated": {"type": "boolean"}, "include_flags": {"type": "object", "additionalProperties": {"type": "boolean"}}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}, "sort_order": {"type": "integer"}, "is_active": {"type": "boolean"}}, "required": ["name", "code", "type", "academic_level_id", "start_date", "end_date"]},
        "FinalAverageRequest": {"type": "object", "properties": {"grades": {"type": "object", "additionalProperties": {"type": "number"}, "description": "Keyed by period id, code or period type"}}, "required": ["grades"]},
        "WeightedAverageRequest": {"type": "object", "properties": {"parent_id": {"type": "string"}, "academic_level_id": {"type": "string"}, "grades": {"type": "object", "additionalProperties": {"type": "number"}, "description": "Keyed by period id, code or period type"}}, "required": ["grades"]},
        "SubjectRequest": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "academic_level_id": {"type": "string"}, "strand_id": {"type": "string"}, "units": {"type": "integer"}, "is_active": {"type": "boolean"}}, "required": ["code", "name", "academic_level_id"]},
        "StrandRequest": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "academic_level_id": {"type": "string"}, "is_active": {"type": "boolean"}}, "required": ["code", "name", "academic_level_id"]},
        "DepartmentRequest": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "is_active": {"type": "boolean"}}, "required": ["code", "name"]},
        "CourseRequest": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "department_id": {"type": "string"}, "is_active": {"type": "boolean"}}, "required": ["code", "name", "department_id"]},
        "AssignmentRequest": {"type": "object", "properties": {"role": {"type": "string", "enum": ["TEACHER", "INSTRUCTOR", "ADVISER"]}, "instructor_id": {"type": "string"}, "academic_level_id": {"type": "string"}, "subject_id": {"type": "string"}, "section": {"type": "string"}, "school_year": {"type": "string", "example": "2024-2025"}, "is_active": {"type": "boolean"}}, "required": ["role", "instructor_id", "academic_level_id", "school_year"]},
        "EnrollmentRequest": {"type": "object", "properties": {"student_id": {"type": "string"}, "subject_id": {"type": "string"}, "school_year": {"type": "string"}}, "required": ["student_id", "subject_id", "school_year"]},
        "EnrollmentStatusRequest": {"type": "object", "properties": {"status": {"type": "string", "enum": ["ENROLLED", "DROPPED"]}}, "required": ["status"]},
        "HonorTypeRequest": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "academic_level_id": {"type": "string"}, "min_average": {"type": "number"}, "max_average": {"type": "number"}, "is_active": {"type": "boolean"}, "description": {"type": "string"}}, "required": ["code", "name", "min_average", "max_average"]},
        "CertificateTemplateRequest": {"type": "object", "properties": {"name": {"type": "string"}, "academic_level_id": {"type": "string"}, "honor_type_id": {"type": "string"}, "content": {"type": "string"}, "is_active": {"type": "boolean"}}, "required": ["name", "content"]},
        "CertificateBatchStudent": {"type": "object", "properties": {"student_id": {"type": "string"}, "average": {"type": "number"}}, "required": ["student_id"]},
        "CertificateBatchRequest": {"type": "object", "properties": {"honor_type_id": {"type": "string"}, "template_id": {"type": "string"}, "school_year": {"type": "string"}, "students": {"type": "array", "items": {"$ref": "#/definitions/CertificateBatchStudent"}}}, "required": ["honor_type_id", "template_id", "school_year", "students"]},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "fields": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
