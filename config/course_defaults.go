package config

import "strings"

// CourseDefaults carries the default skills and syllabus applied to a course
// when the teacher does not fill them in. Keyed by normalized course title.
type CourseDefaults struct {
	Skills   string
	Syllabus string
}

// CourseDefaultsMap maps normalized course titles to their defaults. Loaded
// once at startup and injected where needed; never mutated after that.
type CourseDefaultsMap map[string]CourseDefaults

// Lookup returns the defaults for a course title, matching case-insensitively
// on the trimmed title.
func (m CourseDefaultsMap) Lookup(title string) (CourseDefaults, bool) {
	d, ok := m[strings.ToLower(strings.TrimSpace(title))]
	return d, ok
}

// DefaultCourseCatalog returns the built-in course defaults.
func DefaultCourseCatalog() CourseDefaultsMap {
	return CourseDefaultsMap{
		"cybersecurity": {
			Skills:   "Network Security, Ethical Hacking, Vulnerability Assessment, Incident Response, Security Best Practices",
			Syllabus: "Network Security Fundamentals\nEthical Hacking and Penetration Testing\nVulnerability Assessment\nIncident Response and Management\nSecurity Best Practices and Compliance",
		},
		"data science": {
			Skills:   "Data Analysis, Python, Statistics, Machine Learning, Data Visualization",
			Syllabus: "Introduction to Data Science\nData Analysis with Python\nMachine Learning Basics\nData Visualization\nStatistical Methods",
		},
		"dsa": {
			Skills:   "Algorithms, Data Structures, Problem Solving, Complexity Analysis, Coding",
			Syllabus: "Arrays and Linked Lists\nStacks and Queues\nTrees and Graphs\nSorting and Searching Algorithms\nDynamic Programming",
		},
		"digital marketing": {
			Skills:   "SEO, Social Media Marketing, Content Marketing, Analytics, PPC Advertising",
			Syllabus: "Introduction to Digital Marketing\nSEO Fundamentals\nSocial Media Marketing\nContent Marketing Strategy\nAnalytics and Measurement",
		},
		"ai and machine learning": {
			Skills:   "Machine Learning, Deep Learning, Neural Networks, Python, TensorFlow",
			Syllabus: "Introduction to AI and ML\nSupervised Learning\nUnsupervised Learning\nDeep Learning Basics\nModel Evaluation and Deployment",
		},
		"cloud computing": {
			Skills:   "AWS, Azure, Cloud Architecture, DevOps, Containerization",
			Syllabus: "Cloud Computing Fundamentals\nAWS Services Overview\nAzure Platform\nContainerization with Docker\nDevOps Practices",
		},
		"project management": {
			Skills:   "Project Planning, Agile Methodology, Risk Management, Team Leadership",
			Syllabus: "Project Management Fundamentals\nAgile Methodology\nScrum Framework\nRisk Management\nTeam Leadership",
		},
		"python": {
			Skills:   "Programming, Data Science, Web Development, Automation, Scripting",
			Syllabus: "Python Basics and Syntax\nData Structures in Python\nObject-Oriented Programming\nPython for Data Science\nWeb Development with Python",
		},
		"java": {
			Skills:   "Object-Oriented Programming, Spring Framework, Java EE, Multithreading",
			Syllabus: "Java Fundamentals\nObject-Oriented Programming\nJava Collections Framework\nSpring Framework\nJava EE Development",
		},
		"web development": {
			Skills:   "HTML, CSS, JavaScript, React, Node.js, Full Stack Development",
			Syllabus: "HTML5 and CSS3\nJavaScript and ES6\nFrontend Frameworks (React)\nBackend Development (Node.js)\nFull Stack Integration",
		},
		"web design": {
			Skills:   "HTML, CSS, JavaScript, Responsive Design, UI/UX Principles",
			Syllabus: "HTML Fundamentals\nCSS Styling and Layout\nJavaScript Basics\nResponsive Design Principles\nUI/UX Design Concepts",
		},
		"mysql": {
			Skills:   "Database Design, SQL Queries, Database Administration, Data Modeling",
			Syllabus: "Database Design Principles\nSQL Fundamentals\nAdvanced SQL Queries\nDatabase Administration\nPerformance Optimization",
		},
		"ui/ux design": {
			Skills:   "User Interface Design, User Experience, Prototyping, Figma, Design Thinking",
			Syllabus: "User Interface Design Principles\nUser Experience Research\nPrototyping and Wireframing\nDesign Tools (Figma)\nDesign Systems",
		},
		"graphic design": {
			Skills:   "Adobe Photoshop, Illustrator, InDesign, Branding, Visual Communication",
			Syllabus: "Design Fundamentals\nAdobe Photoshop\nAdobe Illustrator\nBranding and Identity\nPrint and Digital Design",
		},
	}
}
