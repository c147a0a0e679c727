package main

// contextualThreshold is the lowest confidence at which a contextual response is shown.
const contextualThreshold = 0.3

const greetingResponse = `👋 Welcome to Uniqwrites Educational Platform!
We're redefining education through tutoring, teacher empowerment, and transformation programs.

Before we continue, please tell us who you are:
1️⃣ Teacher
2️⃣ Parent/Guardian
3️⃣ Student
4️⃣ Volunteer
5️⃣ Sponsor
6️⃣ School Admin
7️⃣ Help
`

var menuResponses = map[MenuKey]string{
	KeyTeacher: `🎉 Great! Welcome, Teacher 👩‍🏫.
Please complete this form to get started:
👉 https://forms.gle/qNpJqTf5f8aiEZa57
`,

	KeyParent: `🌟 Wonderful! We're excited to support your child's learning journey.
Please complete this quick form to begin:
👉 https://forms.gle/eTkf1N9qrKZyNJr4A
`,

	KeyStudent: `💡 Amazing! Welcome, future scholar.
Please fill in this form so we can tailor your learning experience:
👉 https://forms.gle/dGQ6G6KZzoycS1n67
`,

	KeyVolunteer: `🤝 Thank you for your heart of service.
Please share your details here so we can connect you with the right initiative:
👉 https://docs.google.com/forms/d/e/1FAIpQLSeOp7MqoaTPE4Rvi_22VwLX_v4dbR62EIJcP8N3FtZWMk0leQ/viewform?usp=sharing&ouid=116162016347061818487
`,

	KeySponsor: `💎 Thank you for your generosity!
Please fill in this sponsorship form to partner with us:
👉 https://docs.google.com/forms/d/e/1FAIpQLSeX_9GAHJB22l_1-OAN08avlW_fxRR1HIlAO_SxvNH9HF4fWg/viewform?usp=sharing&ouid=116162016347061818487
`,

	KeySchoolAdmin: `🏫 Wonderful! Let's help you transform your school.
Please complete this form to get started:
👉 https://docs.google.com/forms/d/e/1FAIpQLSesPzdDEMUc_V5BXdZUjupEhSpgMaLMVQMz61TlD3CxyOFi6w/viewform?usp=sharing&ouid=116162016347061818487
`,

	KeyHelp: `📚 Here's what I can help you with:

11 Learn about our Mission, Vision & Values
12 Explore our Initiatives
13 Our Services
14 Speak to a Human Agent

Type 'back' to return to main menu
`,

	KeyMission: `🌟 Our Mission
Empowering learners, uplifting educators. We make education personalized, inclusive, and accessible through innovative digital solutions, ensuring every learner excels and every educator thrives.

👁️ Our Vision
To make learning accessible to all by empowering students and educators through technology, personalization, and strong relationships. Uniqwrites—Education with You in Mind.

💎 Our Values
- Redefining Perspectives: Impossibility is a perspective so we redefine it.
- Activating Potential: Possibilities are rooted in potential. So we activate it.
- Facilitating Growth: Growth is the process, so we embrace it.
- Creating Lasting Impact: We foster joy, success, and fulfillment through education.

👥 Our Team
We are real people from diverse backgrounds, united by passion for transforming learning into a personalized and impactful experience.

Type 'back' to return to help menu or 'menu' for main menu
`,

	KeyInitiatives: `📌 Our Initiatives

✨ Literacy Immersion Outreach
We tackle literacy barriers in public secondary schools through immersive programs, workshops, and resources. Inspired by our founder's journey from struggling reader to top student, we aim to ensure no child's potential is limited by literacy challenges.

✨ Back-to-School Initiative
A rescue mission for lost dreams—helping out-of-school children return to classrooms. We provide mentorship, tutoring, and financial aid to turn streets back into pathways of education.

👉 Volunteer: https://docs.google.com/forms/d/e/1FAIpQLSeOp7MqoaTPE4Rvi_22VwLX_v4dbR62EIJcP8N3FtZWMk0leQ/viewform?usp=sharing&ouid=116162016347061818487
👉 Sponsor: https://docs.google.com/forms/d/e/1FAIpQLSeX_9GAHJB22l_1-OAN08avlW_fxRR1HIlAO_SxvNH9HF4fWg/viewform?usp=sharing&ouid=116162016347061818487

Type 'back' to return to help menu or 'menu' for main menu
`,

	KeyServices: `🛠 Our Services

👨‍👩‍👧 For Parents/Guardians
- Home Tutoring (1-on-1 & group, online & physical)
- Homework Help
- Homeschooling
- Exam Prep (SAT, IGCSE, WAEC, NECO, JAMB & more)
👉 Request a Tutor: https://forms.gle/eTkf1N9qrKZyNJr4A

🏫 For Schools
- Request Teachers
- Digital Transformation
- School Management System
- EdTech Tools Consultation
👉 Request Services: https://docs.google.com/forms/d/e/1FAIpQLSesPzdDEMUc_V5BXdZUjupEhSpgMaLMVQMz61TlD3CxyOFi6w/viewform?usp=sharing&ouid=116162016347061818487

👩‍🏫 For Teachers
- Access Free Resources
- Professional Training
- Secure Dignified Job Opportunities
- Join a Purpose-Driven Community
👉 Become a Tutor: https://forms.gle/qNpJqTf5f8aiEZa57

Type 'back' to return to help menu or 'menu' for main menu
`,

	KeyHumanAgent: `👨‍💼 A human agent will connect with you shortly. Please hold on…`,
}

// roleHelp is shown when input matched nothing but the user already picked a role.
var roleHelp = map[Role]string{
	RoleTeacher: `👩‍🏫 As a teacher, you can ask me about:
- Becoming a tutor
- Professional training and free resources
- Teaching job opportunities

Or type 'help' for the help menu, 'menu' for main menu
`,

	RoleParent: `👨‍👩‍👧 As a parent/guardian, you can ask me about:
- Home tutoring and homework help
- Exam prep (SAT, IGCSE, WAEC, NECO, JAMB)
- Homeschooling and the Parents Academy Program (PAP)

Or type 'help' for the help menu, 'menu' for main menu
`,

	RoleStudent: `💡 As a student, you can ask me about:
- Getting a tutor for any subject
- Exam preparation and past questions
- Reading and study support

Or type 'help' for the help menu, 'menu' for main menu
`,

	RoleVolunteer: `🤝 As a volunteer, you can ask me about:
- Literacy Immersion Outreach
- The Back-to-School Initiative
- Ways to give back in your community

Or type 'help' for the help menu, 'menu' for main menu
`,

	RoleSponsor: `💎 As a sponsor, you can ask me about:
- Sponsoring a child's education
- Funding our literacy programs
- Partnering with Uniqwrites

Or type 'help' for the help menu, 'menu' for main menu
`,

	RoleSchoolAdmin: `🏫 As a school admin, you can ask me about:
- Requesting teachers
- Digital transformation and school management systems
- Literacy programs for your students

Or type 'help' for the help menu, 'menu' for main menu
`,
}

// ResponseTable resolves menu keys, role help blocks and contextual intent
// responses to text. Read only after construction.
type ResponseTable struct {
	catalog *Catalog
}

func NewResponseTable(catalog *Catalog) *ResponseTable {
	return &ResponseTable{catalog: catalog}
}

func (rt *ResponseTable) Greeting() string {
	return greetingResponse
}

// Menu returns the text for key. Unrecognized keys get the greeting.
func (rt *ResponseTable) Menu(key MenuKey) string {
	if text, ok := menuResponses[key]; ok {
		return text
	}
	return greetingResponse
}

func (rt *ResponseTable) RoleHelp(role Role) (string, bool) {
	text, ok := roleHelp[role]
	return text, ok
}

// ResolveContextual returns the intent's response for role, or false when
// confidence is below the contextual threshold or the intent has no entry.
func (rt *ResponseTable) ResolveContextual(intent string, confidence float64, role Role) (string, bool) {
	if confidence < contextualThreshold {
		return "", false
	}
	return rt.catalog.Contextual(intent, role)
}
