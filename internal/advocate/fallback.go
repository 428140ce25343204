package advocate

// FallbackData is the static dataset served when the primary store is
// unreachable and inserted by the seed endpoint. Entries carry no ID or
// CreatedAt; the database assigns both on insert.
var FallbackData = []Advocate{
	{FirstName: "John", LastName: "Doe", City: "New York", Degree: "MD", Specialties: []string{"Bipolar", "LGBTQ", "Medication/Prescribing"}, YearsOfExperience: 10, PhoneNumber: "5551234567"},
	{FirstName: "Jane", LastName: "Smith", City: "Los Angeles", Degree: "PhD", Specialties: []string{"Trauma & PTSD", "Personality disorders"}, YearsOfExperience: 8, PhoneNumber: "5559876543"},
	{FirstName: "Alice", LastName: "Johnson", City: "Chicago", Degree: "MSW", Specialties: []string{"Relationship Issues", "Grief", "Chronic pain"}, YearsOfExperience: 5, PhoneNumber: "5554567890"},
	{FirstName: "Michael", LastName: "Brown", City: "Houston", Degree: "MD", Specialties: []string{"Substance use/abuse", "Pediatrics"}, YearsOfExperience: 12, PhoneNumber: "5556543210"},
	{FirstName: "Emily", LastName: "Davis", City: "Phoenix", Degree: "PhD", Specialties: []string{"Eating disorders", "Diabetic Diet and nutrition"}, YearsOfExperience: 7, PhoneNumber: "5553210987"},
	{FirstName: "Chris", LastName: "Martinez", City: "Philadelphia", Degree: "MSW", Specialties: []string{"Schizophrenia and psychotic disorders", "Life coaching"}, YearsOfExperience: 9, PhoneNumber: "5557890123"},
	{FirstName: "Jessica", LastName: "Taylor", City: "San Antonio", Degree: "MD", Specialties: []string{"Obsessive-compulsive disorders"}, YearsOfExperience: 11, PhoneNumber: "5554561234"},
	{FirstName: "David", LastName: "Harris", City: "San Diego", Degree: "PhD", Specialties: []string{"Neuropsychological evaluations & testing", "Attention and Hyperactivity (ADHD)"}, YearsOfExperience: 6, PhoneNumber: "5557896543"},
	{FirstName: "Laura", LastName: "Clark", City: "Dallas", Degree: "MSW", Specialties: []string{"Domestic abuse", "Trauma & PTSD"}, YearsOfExperience: 4, PhoneNumber: "5550123456"},
	{FirstName: "Daniel", LastName: "Lewis", City: "San Jose", Degree: "MD", Specialties: []string{"General Mental Health", "Men's issues"}, YearsOfExperience: 13, PhoneNumber: "5553217654"},
	{FirstName: "Sarah", LastName: "Lee", City: "Austin", Degree: "PhD", Specialties: []string{"Sleep issues", "Coaching (leadership, career, academic and wellness)"}, YearsOfExperience: 10, PhoneNumber: "5551238765"},
	{FirstName: "James", LastName: "King", City: "Jacksonville", Degree: "MSW", Specialties: []string{"Weight loss & nutrition", "Suicide History/Attempts"}, YearsOfExperience: 5, PhoneNumber: "5556540987"},
	{FirstName: "Megan", LastName: "Green", City: "San Francisco", Degree: "MD", Specialties: []string{"Women's issues (post-partum, infertility, family planning)", "LGBTQ"}, YearsOfExperience: 14, PhoneNumber: "5559873456"},
	{FirstName: "Joshua", LastName: "Walker", City: "Columbus", Degree: "PhD", Specialties: []string{"Learning disorders", "Developmental disorders"}, YearsOfExperience: 9, PhoneNumber: "5556781234"},
	{FirstName: "Amanda", LastName: "Hall", City: "Fort Worth", Degree: "MSW", Specialties: []string{"Grief", "General Mental Health"}, YearsOfExperience: 3, PhoneNumber: "5569876542"},
}
