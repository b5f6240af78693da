package ai

import (
	"fmt"
	"strings"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/grading"
)

var typeInstructions = map[activity.Type]string{
	activity.TypeQuiz:           "cuestionario de opción múltiple con 4 opciones",
	activity.TypeMultipleChoice: "preguntas de opción múltiple con 4 opciones",
	activity.TypeTrueFalse:      "preguntas de verdadero o falso",
	activity.TypeCodeChallenge:  "retos de programación con código",
	activity.TypeOpenQuestion:   "preguntas abiertas que requieren respuesta escrita",
	activity.TypeQuestion:       "preguntas educativas",
	activity.TypeExercise:       "ejercicios prácticos",
}

var difficultyInstructions = map[activity.Difficulty]string{
	activity.DifficultyEasy:         "conceptos básicos y fundamentales, claros y directos",
	activity.DifficultyMedium:       "aplicación de conceptos y resolución de problemas moderados",
	activity.DifficultyHard:         "análisis profundo, casos complejos y razonamiento avanzado",
	activity.DifficultyBasic:        "conceptos básicos y fundamentales",
	activity.DifficultyIntermediate: "nivel intermedio de complejidad",
	activity.DifficultyAdvanced:     "nivel avanzado y complejo",
}

func buildGeneratePrompt(req GenerateRequest) string {
	typeHint := typeInstructions[req.Type]
	if typeHint == "" {
		typeHint = "actividad"
	}
	diffHint := difficultyInstructions[req.Difficulty]
	if diffHint == "" {
		diffHint = "nivel medio"
	}
	studyText := req.StudyText
	if studyText == "" {
		studyText = "(vacío)"
	}

	var sb strings.Builder
	sb.WriteString("Eres un profesor universitario experto creando actividades educativas de alta calidad.\n\n")
	sb.WriteString("CONTEXTO:\n")
	fmt.Fprintf(&sb, "- Materia: %s\n", req.Subject)
	fmt.Fprintf(&sb, "- Unidad: %s\n", req.Unit)
	fmt.Fprintf(&sb, "- Subtema: %s\n", req.Subtopic)
	fmt.Fprintf(&sb, "- Tipo de actividad: %s (%s)\n", req.Type, typeHint)
	fmt.Fprintf(&sb, "- Dificultad: %s (%s)\n", req.Difficulty, diffHint)
	fmt.Fprintf(&sb, "- Cantidad de preguntas (si aplica): %d\n\n", req.QuestionsCount)
	sb.WriteString("TEXTO BASE DEL SUBTEMA (lo que el alumno debe estudiar):\n")
	sb.WriteString(studyText + "\n\n")
	if req.TeacherPrompt != "" {
		sb.WriteString("INSTRUCCIONES DEL PROFESOR:\n" + req.TeacherPrompt + "\n\n")
	}
	sb.WriteString("REGLAS:\n")
	sb.WriteString("- Debes basarte EN EL TEXTO BASE del subtema.\n")
	sb.WriteString("- Para QUIZ, genera preguntas con 4 opciones, correctAnswer (0..3), explanation y points (5..20).\n")
	sb.WriteString("- Para OPEN_QUESTION o CODE_CHALLENGE, genera un enunciado completo con objetivo, descripción, criterios de evaluación, entregables y preguntas de reflexión (si aplica).\n")
	sb.WriteString("- Responde ÚNICAMENTE con JSON válido.\n\n")
	sb.WriteString(`FORMATO JSON:
{
  "title": "Título",
  "description": "Descripción",
  "estimatedTime": 15,
  "studyText": "Texto base a estudiar",
  "instructions": "Instrucciones breves",
  "generatedText": "Enunciado completo",
  "questions": [
    {"id": 1, "question": "Pregunta", "options": ["A","B","C","D"], "correctAnswer": 0, "explanation": "Explicación", "points": 10}
  ]
}`)
	return sb.String()
}

func buildEvaluatePrompt(req grading.EvalRequest) string {
	orEmpty := func(s string) string {
		if s == "" {
			return "(vacío)"
		}
		return s
	}
	statement := req.GeneratedText
	if statement == "" {
		statement = req.Instructions
	}

	var sb strings.Builder
	sb.WriteString("Eres un profesor universitario. Debes CALIFICAR una entrega.\n\n")
	fmt.Fprintf(&sb, "TIPO: %s\n", req.ActivityType)
	fmt.Fprintf(&sb, "TÍTULO: %s\n\n", req.Title)
	sb.WriteString("=== TEXTO BASE (para estudiar) ===\n" + orEmpty(req.StudyText) + "\n\n")
	sb.WriteString("=== ENUNCIADO / INSTRUCCIONES ===\n" + orEmpty(statement) + "\n\n")
	sb.WriteString("=== RESPUESTA DEL ESTUDIANTE ===\n" + orEmpty(req.StudentAnswer) + "\n\n")
	sb.WriteString("TAREA:\n")
	sb.WriteString("1) Evalúa si cumple las instrucciones y criterios del enunciado.\n")
	sb.WriteString("2) Asigna score 0..100.\n")
	sb.WriteString("3) Retroalimentación específica.\n")
	sb.WriteString("4) Si hay criterios (porcentaje/puntos), haz un desglose.\n\n")
	sb.WriteString(`RESPONDE SOLO JSON VÁLIDO:
{
  "score": 0,
  "feedback": "texto",
  "rubric": [{"criterion": "Criterio", "points": 0, "maxPoints": 0, "notes": "..."}],
  "strengths": ["..."],
  "improvements": ["..."]
}`)
	return sb.String()
}
