package forms

import (
	"sura/internal/adapters/backend"
	"sura/internal/domain/identity"
	"sura/internal/domain/report"
)

// Option lists shared by several forms.
var (
	documentTypes     = []string{"CC", "TI", "CE", "Pasaporte"}
	notificationTypes = []string{"Informativa", "Recordatorio", "Urgente", "Académica"}
	priorities        = []string{"Baja", "Media", "Alta"}
	examTypes         = []string{"Parcial", "Final", "Quiz", "Taller", "Proyecto"}
	contractTypes     = []string{"Indefinido", "Fijo", "Prestación de servicios", "Cátedra"}
	workdays          = []string{"Completa", "Media", "Por horas"}
	periods           = []string{"Mensual", "Trimestral", "Semestral", "Anual"}
)

// Users is the user account form; passwords are set only at registration.
var Users = Spec{
	Resource: backend.ResourceUsers,
	Title:    "Usuarios",
	Singular: "usuario",
	Path:     "/usuarios",
	Fields: []Field{
		{Name: identity.FieldName, Label: "Nombre", Kind: KindText, Required: true, Column: true},
		{Name: identity.FieldEmail, Label: "Correo", Kind: KindEmail, Required: true, Column: true},
		{Name: identity.FieldRole, Label: "Rol", Kind: KindSelect, Required: true, Options: identity.ValidRoles, Column: true},
	},
}

// Registration is the public sign-up form.
var Registration = Spec{
	Resource: backend.ResourceUsers,
	Title:    "Registro",
	Singular: "usuario",
	Path:     "/registro",
	Fields: []Field{
		{Name: identity.FieldName, Label: "Nombre", Kind: KindText, Required: true},
		{Name: identity.FieldEmail, Label: "Correo", Kind: KindEmail, Required: true},
		{Name: identity.FieldPassword, Label: "Contraseña", Kind: KindPassword, Required: true, Rules: "min=6"},
		{Name: identity.FieldRole, Label: "Rol", Kind: KindSelect, Required: true, Options: identity.ValidRoles, Default: identity.RoleStandard},
	},
}

// Notifications is the message form.
var Notifications = Spec{
	Resource: backend.ResourceNotifications,
	Title:    "Notificaciones",
	Singular: "notificación",
	Path:     "/notificaciones",
	Fields: []Field{
		{Name: "emailRemitente", Label: "Correo remitente", Kind: KindEmail, Required: true, Column: true},
		{Name: "emailDestinatario", Label: "Correo destinatario", Kind: KindEmail, Required: true, Column: true},
		{Name: "asunto", Label: "Asunto", Kind: KindText, Required: true, Rules: "max=200", Column: true},
		{Name: "cuerpoMensaje", Label: "Mensaje", Kind: KindTextarea},
		{Name: "tipoNotificacion", Label: "Tipo", Kind: KindSelect, Options: notificationTypes, Default: "Informativa", Column: true},
		{Name: "prioridad", Label: "Prioridad", Kind: KindSelect, Options: priorities, Default: "Media", Column: true},
		{Name: "cursoRelacionado", Label: "Curso relacionado", Kind: KindText},
		{Name: "categoriaCurso", Label: "Categoría del curso", Kind: KindText},
		{Name: "fechaEntrega", Label: "Fecha de entrega", Kind: KindDate},
		{Name: "fechaEnvio", Label: "Fecha de envío", Kind: KindDate, Column: true},
		{Name: "horaEnvio", Label: "Hora de envío", Kind: KindTime},
		{Name: "fechaCreacion", Label: "Fecha de creación", Kind: KindDate},
		{Name: "estado", Label: "Activa", Kind: KindCheckbox, Default: "true"},
		{Name: "cantidadArchivosAdjuntos", Label: "Archivos adjuntos", Kind: KindInteger, Rules: "gte=0"},
		{Name: "mensajeEnviado", Label: "Enviado", Kind: KindCheckbox},
		{Name: "mensajeLeido", Label: "Leído", Kind: KindCheckbox},
		{Name: "notificacionEmergente", Label: "Emergente", Kind: KindCheckbox},
	},
}

// Teachers is the teacher profile form.
var Teachers = Spec{
	Resource: backend.ResourceTeachers,
	Title:    "Profesores",
	Singular: "profesor",
	Path:     "/profesores",
	Fields: []Field{
		{Name: "nombreCompleto", Label: "Nombre completo", Kind: KindText, Required: true, Column: true},
		{Name: "tipoIdentificacion", Label: "Tipo de identificación", Kind: KindSelect, Options: documentTypes},
		{Name: "numeroDocumento", Label: "Número de documento", Kind: KindText, Required: true, Column: true},
		{Name: "correoElectronico", Label: "Correo electrónico", Kind: KindEmail, Required: true, Column: true},
		{Name: "celular", Label: "Celular", Kind: KindText, Rules: "max=20"},
		{Name: "edad", Label: "Edad", Kind: KindInteger, Rules: "gte=18,lte=100"},
		{Name: "estadoCivil", Label: "Estado civil", Kind: KindText},
		{Name: "genero", Label: "Género", Kind: KindText},
		{Name: "nivelAcademico", Label: "Nivel académico", Kind: KindText, Column: true},
		{Name: "areasAsignadas", Label: "Áreas asignadas", Kind: KindText},
		{Name: "anosExperiencia", Label: "Años de experiencia", Kind: KindInteger, Rules: "gte=0"},
		{Name: "perfilProfesional", Label: "Perfil profesional", Kind: KindTextarea},
		{Name: "tipoContrato", Label: "Tipo de contrato", Kind: KindSelect, Options: contractTypes},
		{Name: "jornadaLaboral", Label: "Jornada laboral", Kind: KindSelect, Options: workdays},
		{Name: FieldTeacherActive, Label: "Vigente", Kind: KindCheckbox, Default: "true", Column: true},
		{Name: "foto", Label: "Foto (URL)", Kind: KindURL},
		{Name: "hojaDeVida", Label: "Hoja de vida (URL)", Kind: KindURL},
	},
}

// Courses is the course form.
var Courses = Spec{
	Resource: backend.ResourceCourses,
	Title:    "Cursos",
	Singular: "curso",
	Path:     "/cursos",
	Fields: []Field{
		{Name: "titulo", Label: "Título", Kind: KindText, Required: true, Column: true},
		{Name: "descripcion", Label: "Descripción", Kind: KindTextarea},
		{Name: "maestro", Label: "Maestro", Kind: KindText, Column: true},
		{Name: "tipoCurso", Label: "Tipo de curso", Kind: KindText, Column: true},
		{Name: FieldCourseActive, Label: "Presencial", Kind: KindCheckbox, Default: "true", Column: true},
		{Name: "duracion", Label: "Duración", Kind: KindText},
		{Name: "intensidad", Label: "Intensidad (horas)", Kind: KindInteger, Rules: "gte=0"},
		{Name: "capitulosCurso", Label: "Capítulos", Kind: KindInteger, Rules: "gte=0"},
		{Name: "estudiantes", Label: "Estudiantes", Kind: KindInteger, Rules: "gte=0"},
		{Name: "calificacion", Label: "Calificación", Kind: KindNumber, Rules: "gte=0,lte=5"},
		{Name: "lugarRealizacion", Label: "Lugar", Kind: KindText},
		{Name: "fechaCreacion", Label: "Fecha de creación", Kind: KindDate},
		{Name: "fechaFinalizacion", Label: "Fecha de finalización", Kind: KindDate},
		{Name: "comentarios", Label: "Comentarios", Kind: KindTextarea},
	},
}

// Enrollments is the enrollment form.
var Enrollments = Spec{
	Resource: backend.ResourceEnrollments,
	Title:    "Matrículas",
	Singular: "matrícula",
	Path:     "/matricula",
	Fields: []Field{
		{Name: "nombre", Label: "Nombre", Kind: KindText, Required: true, Column: true},
		{Name: "documento", Label: "Documento", Kind: KindText, Required: true, Column: true},
		{Name: "correo", Label: "Correo", Kind: KindEmail, Required: true, Column: true},
		{Name: "fechaMatricula", Label: "Fecha de matrícula", Kind: KindDate, Required: true, Column: true},
		{Name: "valorMatricula", Label: "Valor", Kind: KindNumber, Rules: "gte=0", Column: true},
	},
}

// Grades is the grade form. Scores are on the 0-5 scale.
var Grades = Spec{
	Resource: backend.ResourceGrades,
	Title:    "Notas",
	Singular: "nota",
	Path:     "/notas",
	Fields: []Field{
		{Name: "nombreEstudiante", Label: "Estudiante", Kind: KindText, Required: true, Column: true, List: StudentsList},
		{Name: "codigoEstudiante", Label: "Código", Kind: KindText, Required: true, Column: true},
		{Name: "emailEstudiante", Label: "Correo del estudiante", Kind: KindEmail, Required: true, Column: true},
		{Name: "nombreMateria", Label: "Materia", Kind: KindText, Required: true, Column: true},
		{Name: "tipoExamen", Label: "Tipo de examen", Kind: KindSelect, Required: true, Options: examTypes, Column: true},
		{Name: "nota", Label: "Nota", Kind: KindNumber, Required: true, Rules: "gte=0,lte=5", Column: true},
	},
}

// Attendance is the attendance form.
var Attendance = Spec{
	Resource: backend.ResourceAttendance,
	Title:    "Asistencias",
	Singular: "asistencia",
	Path:     "/asistencias",
	Fields: []Field{
		{Name: "tituloCurso", Label: "Curso", Kind: KindText, Required: true, Column: true},
		{Name: "nombrePersona", Label: "Nombre", Kind: KindText, Required: true, Column: true},
		{Name: "correoPersona", Label: "Correo", Kind: KindEmail, Required: true, Column: true},
		{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true, Column: true},
		{Name: "horaEntrada", Label: "Hora de entrada", Kind: KindTime, Required: true, Column: true},
		{Name: "asistio", Label: "Asistió", Kind: KindCheckbox, Default: "true", Column: true},
		{Name: "tieneExcusa", Label: "Tiene excusa", Kind: KindCheckbox},
		{Name: "excusa", Label: "Excusa", Kind: KindTextarea},
	},
}

// Reports is the report form; tipoReporte selects the tab it appears in.
var Reports = Spec{
	Resource: backend.ResourceReports,
	Title:    "Reportes",
	Singular: "reporte",
	Path:     "/reportes",
	Fields: []Field{
		{Name: report.FieldType, Label: "Tipo de reporte", Kind: KindSelect, Required: true, Options: report.ValidTypes, Default: report.TypeAcademic},
		{Name: "periodoReporte", Label: "Periodo", Kind: KindSelect, Options: periods, Column: true},
		{Name: "notaFinal", Label: "Nota final", Kind: KindNumber, Rules: "gte=0,lte=5", Column: true},
		{Name: "promedioNotaCursos", Label: "Promedio de notas", Kind: KindNumber, Rules: "gte=0,lte=5", Column: true},
		{Name: "asistenciaTotal", Label: "Asistencia total", Kind: KindInteger, Rules: "gte=0"},
		{Name: "cantidadCursos", Label: "Cantidad de cursos", Kind: KindInteger, Rules: "gte=0", Column: true},
		{Name: "cursoPopular", Label: "Curso más popular", Kind: KindText, Column: true},
		{Name: "cursoMenosPopular", Label: "Curso menos popular", Kind: KindText},
		{Name: "cantidadHorasCurso", Label: "Horas por curso", Kind: KindInteger, Rules: "gte=0"},
		{Name: "desempeno", Label: "Desempeño", Kind: KindText},
		{Name: "cantidadUsuarios", Label: "Cantidad de usuarios", Kind: KindInteger, Rules: "gte=0", Column: true},
		{Name: "cantidadUsuariosCurso", Label: "Usuarios por curso", Kind: KindInteger, Rules: "gte=0"},
		{Name: "promedioUsuariosAprobadosCurso", Label: "Aprobados por curso (%)", Kind: KindNumber, Rules: "gte=0,lte=100"},
		{Name: "promedioMatricula", Label: "Promedio de matrícula", Kind: KindNumber, Rules: "gte=0"},
		{Name: "calificacionDocente", Label: "Calificación docente", Kind: KindNumber, Rules: "gte=0,lte=5"},
	},
}

// Fields toggled by the deactivate actions.
const (
	FieldTeacherActive = "vigencia"
	FieldCourseActive  = "presencialidad"
)

// StudentsList is the datalist id offering student names on the grade form.
const StudentsList = "estudiantes"
