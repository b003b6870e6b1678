package openai

const systemPrompt = "You are a makeup artist's assistant. You must respond with valid JSON only. Do not include any text outside the JSON object."

const analyzePrompt = `Analyze this selfie and provide: skin_tone (Fair/Light/Medium/Tan/Deep), undertone (Cool/Warm/Neutral), eye_color (Brown/Blue/Green/Hazel/Gray), face_shape (Oval/Round/Square/Heart/Diamond/Oblong). Return as JSON only, for example {"skin_tone":"Medium","undertone":"Warm","eye_color":"Brown","face_shape":"Oval"}.`

const repairPrompt = `The previous reply was not the requested JSON object. Reply again with only {"skin_tone":...,"undertone":...,"eye_color":...,"face_shape":...}. Previous reply:
`
